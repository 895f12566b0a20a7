package http

import (
	"encoding/json"
	"net/http"
	"strings"
)

func (s *Server) handleSubscriptionGroups(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	groups, err := s.service.SubscriptionGroups(r.Context(), year, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(groups))
}

func (s *Server) handleListExclusions(w http.ResponseWriter, r *http.Request) {
	exclusions, err := s.service.ListExclusions(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(exclusions))
}

type exclusionRequest struct {
	Description string `json:"description"`
	PatternKey  string `json:"patternKey"`
	Label       string `json:"label"`
}

func (s *Server) handleUpsertExclusion(w http.ResponseWriter, r *http.Request) {
	var req exclusionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}
	if req.Label == "" {
		req.Label = req.Description
	}

	exclusion, err := s.service.UpsertExclusion(r.Context(), req.Description, req.PatternKey, req.Label)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, exclusion)
}

func (s *Server) handleDeleteExclusion(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.service.DeleteExclusion(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
