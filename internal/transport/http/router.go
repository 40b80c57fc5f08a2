// Package httptransport assembles the engine's HTTP surface: middleware
// chain, public catalog and ticket routes, health, and metrics.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cataloghandler "turnero/internal/catalog/handler"
	"turnero/internal/platform/metrics"
	"turnero/internal/platform/middleware"
	tickethandler "turnero/internal/ticket/handler"
	"turnero/internal/transport/http/shared"
)

// Dependencies carries everything the router needs; main wires it once.
type Dependencies struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	RequestTimeout time.Duration
	Catalog        *cataloghandler.Handler
	Tickets        *tickethandler.Handler
	// HealthChecks run on /healthz; a failing check turns the response 503.
	// Keyed by dependency name for the response body.
	HealthChecks map[string]func(ctx context.Context) error
}

// NewRouter builds the full route tree.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(deps.RequestTimeout))
	r.Use(middleware.ContentTypeJSON)
	if deps.Metrics != nil {
		r.Use(middleware.Latency(deps.Metrics))
	}

	r.Get("/healthz", handleHealth(deps.HealthChecks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		deps.Catalog.Register(api)
		deps.Tickets.Register(api)
	})

	return r
}

func handleHealth(checks map[string]func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
			} else {
				body[name] = "ok"
			}
		}
		shared.WriteJSON(w, status, body)
	}
}
