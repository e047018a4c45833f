package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iudanet/userauth/internal/models"
	"github.com/iudanet/userauth/internal/server/middleware"
)

// Service - все, что HTTP слой использует от фасада авторизации
type Service interface {
	AuthService
	Pinger
	GetUserFromSessionID(ctx context.Context, sessionID string) (*models.User, error)
}

// RouterConfig содержит зависимости маршрутизатора
type RouterConfig struct {
	Logger   *slog.Logger
	Service  Service
	Metrics  *middleware.Metrics // nil - без метрик
	Gatherer prometheus.Gatherer // источник для GET /metrics
	Version  string
}

// NewRouter собирает маршруты и middleware сервера
func NewRouter(cfg RouterConfig) http.Handler {
	var events EventRecorder
	if cfg.Metrics != nil {
		events = cfg.Metrics
	}

	authHandler := NewAuthHandler(cfg.Logger, cfg.Service, events)
	healthHandler := NewHealthHandler(cfg.Logger, cfg.Service, cfg.Version)

	session := middleware.SessionMiddleware(cfg.Logger, cfg.Service)
	requireSession := func(h http.HandlerFunc) http.Handler {
		return session(middleware.RequireSession(cfg.Logger)(h))
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", authHandler.Index)
	mux.HandleFunc("POST /users", authHandler.Register)
	mux.HandleFunc("POST /sessions", authHandler.Login)
	mux.Handle("DELETE /sessions", requireSession(authHandler.Logout))
	mux.Handle("GET /profile", requireSession(authHandler.Profile))
	mux.HandleFunc("POST /reset_password", authHandler.GetResetPasswordToken)
	mux.HandleFunc("PUT /reset_password", authHandler.UpdatePassword)
	mux.HandleFunc("GET /health", healthHandler.Health)

	if cfg.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	// Цепочка: metrics -> logging -> recovery -> mux
	// session middleware навешан на маршруты, чтобы r.Pattern был виден метрикам
	var handler http.Handler = mux
	handler = middleware.RecoveryMiddleware(cfg.Logger)(handler)
	handler = middleware.LoggingWithSkip(cfg.Logger, []string{"/health", "/metrics"})(handler)
	if cfg.Metrics != nil {
		handler = cfg.Metrics.Middleware(handler)
	}

	return handler
}
