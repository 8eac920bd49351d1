// Package server exposes scans over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/cryptoshield/internal/core/domain"
	"github.com/vietddude/cryptoshield/internal/infra/rpc"
	"github.com/vietddude/cryptoshield/internal/scanner"
)

// Scanner is the scan service the handlers call.
type Scanner interface {
	Scan(ctx context.Context, raw string) (*scanner.Report, error)
	History(ctx context.Context, limit int) ([]*domain.ScanRecord, error)
	TokenHistory(ctx context.Context, raw string, limit int) ([]*domain.ScanRecord, error)
}

// Config holds HTTP server settings.
type Config struct {
	RateLimit float64 // requests per second per client, 0 disables limiting
	Burst     int
}

// Server is the HTTP server
type Server struct {
	scans     Scanner
	endpoints []*rpc.Client
	logger    *slog.Logger
	router    *chi.Mux
	limiter   *RateLimiter
}

// New creates the server. endpoints are reported by /health.
func New(cfg Config, scans Scanner, endpoints []*rpc.Client, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		scans:     scans,
		endpoints: endpoints,
		logger:    logger.With("component", "server"),
		router:    chi.NewRouter(),
	}
	if cfg.RateLimit > 0 {
		s.limiter = NewRateLimiter(cfg.RateLimit, cfg.Burst)
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close stops background work.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RealIP)
	if s.limiter != nil {
		s.router.Use(s.limiter.Middleware)
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(LoggingMiddleware(s.logger))
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/health", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.router.Get("/scan/{address}", s.handleScan)
	s.router.Get("/scans", s.handleHistory)
	s.router.Get("/scans/{address}", s.handleTokenHistory)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "CryptoShield",
		"message": "Token risk scanner. Try GET /scan/{address}",
	})
}

type scanResponse struct {
	Honeypot  any    `json:"honeypot"`
	Rugpull   any    `json:"rugpull"`
	Liquidity any    `json:"liquidity"`
	LPLock    any    `json:"lp_lock"`
	Score     int    `json:"score"`
	Verdict   string `json:"verdict"`
	Summary   string `json:"summary"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	report, err := s.scans.Scan(r.Context(), chi.URLParam(r, "address"))
	if err != nil {
		s.writeScanError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, scanResponse{
		Honeypot:  report.Honeypot,
		Rugpull:   report.Rugpull,
		Liquidity: report.Liquidity,
		LPLock:    report.LPLock,
		Score:     report.Score,
		Verdict:   string(report.Verdict),
		Summary:   report.Summary,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	recs, err := s.scans.History(r.Context(), limit)
	if err != nil {
		s.writeScanError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scans": recs})
}

func (s *Server) handleTokenHistory(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	recs, err := s.scans.TokenHistory(r.Context(), chi.URLParam(r, "address"), limit)
	if err != nil {
		s.writeScanError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scans": recs})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	stats := make([]rpc.Stats, 0, len(s.endpoints))
	for _, c := range s.endpoints {
		st := c.Stats()
		if !st.Health.Available {
			status = "degraded"
		}
		stats = append(stats, st)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    status,
		"endpoints": stats,
	})
}

func (s *Server) writeScanError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "INVALID_ADDRESS", err.Error())
		return
	}
	s.logger.Error("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
}

func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a non-negative integer")
		return 0, false
	}
	return limit, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}
