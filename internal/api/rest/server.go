package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arenapulse/anticheat-backend/internal/infrastructure/config"
	"github.com/arenapulse/anticheat-backend/internal/service/anticheat"
)

// Server is the HTTP surface: session intake for the summarizer plus the
// profile/anomaly query and review endpoints for downstream tooling.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer wires routes, rate limiting and reviewer auth.
func NewServer(cfg *config.Config, svc anticheat.Service, logger *zap.Logger) *Server {
	h := &handlers{svc: svc, logger: logger}
	limiter := newRateLimiter(cfg.Security.RateLimit.RequestsPerSecond, cfg.Security.RateLimit.BurstSize)
	secret := cfg.Security.JWTSecret

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/sessions", h.handleIngestSession)
	mux.HandleFunc("GET /api/v1/players/{playerID}/profile", h.handleGetProfile)
	mux.HandleFunc("GET /api/v1/players/{playerID}/trust", h.handleGetTrustScore)
	mux.HandleFunc("GET /api/v1/players/{playerID}/anomalies", h.handleListAnomalies)
	mux.HandleFunc("POST /api/v1/players/{playerID}/anomalies/{anomalyID}/review",
		requireReviewer(secret, h.handleReviewAnomaly))
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      limiter.middleware(mux),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		logger: logger,
	}
}

// Start blocks serving HTTP until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
