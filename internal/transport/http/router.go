// Package httptransport assembles the public HTTP surface: feature handlers,
// the shared middleware stack, health and metrics endpoints.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"canvass/internal/platform/middleware"
)

// FeatureHandler is implemented by every feature's HTTP handler.
type FeatureHandler interface {
	Register(r chi.Router)
}

// HealthChecker reports readiness of a backing dependency.
type HealthChecker func(r *http.Request) error

// NewRouter wires the middleware stack and mounts the feature handlers.
func NewRouter(logger *slog.Logger, health HealthChecker, features ...FeatureHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Actor)
	r.Use(middleware.Logger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if health != nil {
			if err := health(req); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	for _, f := range features {
		f.Register(r)
	}
	return r
}
