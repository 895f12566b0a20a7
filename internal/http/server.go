// Package http exposes the JSON API over net/http.
package http

import (
	"context"
	"net/http"
	"sync"

	"cardledger/internal/log"
	"cardledger/internal/middleware/ratelimit"
	"cardledger/internal/services"
)

type Server struct {
	http.Server
	service      *services.TransactionService
	logger       *log.Logger
	limiter      *ratelimit.Limiter
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, service *services.TransactionService, logger *log.Logger) *Server {
	s := &Server{
		service: service,
		logger:  logger,
		limiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handleHealth)

	mux.HandleFunc("GET /api/expenses", s.handleListTransactions)
	mux.HandleFunc("POST /api/expenses/upload", s.handleUpload)
	mux.HandleFunc("POST /api/expenses/manual", s.handleManualEntry)
	mux.HandleFunc("GET /api/expenses/summary", s.handleCategorySummary)
	mux.HandleFunc("GET /api/expenses/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/expenses/years", s.handleYears)
	mux.HandleFunc("GET /api/expenses/latest-period", s.handleLatestPeriod)
	mux.HandleFunc("DELETE /api/expenses", s.handleDeleteAll)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/subscriptions/transactions", s.handleSubscriptionGroups)
	mux.HandleFunc("GET /api/subscriptions/exclusions", s.handleListExclusions)
	mux.HandleFunc("POST /api/subscriptions/exclusions", s.handleUpsertExclusion)
	mux.HandleFunc("DELETE /api/subscriptions/exclusions/{id}", s.handleDeleteExclusion)

	handler := s.limiter.Middleware(ratelimit.ClientIP)(mux)
	s.Server = http.Server{
		Addr:    addr,
		Handler: log.Middleware(logger)(handler),
	}

	return s
}

// Shutdown stops the rate limiter's cleanup goroutine along with the HTTP
// server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
