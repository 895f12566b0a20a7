package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"cardledger/internal/core"
	"cardledger/internal/services"
)

// maxUploadBytes caps CSV upload size at 10 MB.
const maxUploadBytes = 10 << 20

// handleUpload ingests a CSV export. The file arrives either as a multipart
// "file" field or as the raw request body.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	csvText, err := readUploadBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	inserted, err := s.service.ImportCSV(r.Context(), csvText)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	batchID := ""
	if len(inserted) > 0 {
		batchID = inserted[0].UploadBatchID
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"imported":      len(inserted),
		"uploadBatchId": batchID,
		"transactions":  emptyIfNil(inserted),
	})
}

func readUploadBody(r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return "", err
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type manualEntryRequest struct {
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	Description string `json:"description"`
	Merchant    string `json:"merchant"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
}

func (s *Server) handleManualEntry(w http.ResponseWriter, r *http.Request) {
	var req manualEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	txType := core.TransactionType(req.Type)
	if req.Type == "" {
		txType = core.TypeExpense
	}

	tx, err := s.service.AddManualEntry(r.Context(), services.ManualEntry{
		Year:        req.Year,
		Month:       req.Month,
		Description: req.Description,
		Merchant:    req.Merchant,
		Category:    req.Category,
		Amount:      amount,
		Type:        txType,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	rows, err := s.service.ListTransactions(r.Context(), year, month, category)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(rows))
}

func (s *Server) handleCategorySummary(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.service.CategorySummary(r.Context(), year, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(summary))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.service.Dashboard(r.Context(), year, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	years, err := s.service.Years(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if years == nil {
		years = []int{}
	}
	writeJSON(w, http.StatusOK, years)
}

func (s *Server) handleLatestPeriod(w http.ResponseWriter, r *http.Request) {
	year, month, err := s.service.LatestPeriod(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"year": year, "month": month})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.service.DeleteTransaction(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteAllTransactions(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// emptyIfNil keeps empty collections as JSON arrays instead of null.
func emptyIfNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
