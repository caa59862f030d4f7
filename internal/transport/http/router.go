// Package httptransport assembles the public HTTP surface: verification
// endpoints, admin report export, health and metrics.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eduverify/internal/reports"
	"eduverify/internal/verification/handler"
	"eduverify/pkg/platform/httputil"
	request "eduverify/pkg/platform/middleware/request"
)

// HealthCheck probes one backing dependency.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Deps carries everything the router mounts.
type Deps struct {
	Logger       *slog.Logger
	Verification *handler.Handler
	Reports      *reports.Handler
	Health       []HealthCheck
}

// NewRouter builds the chi router with the shared middleware stack.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(request.RequestID)
	r.Use(request.RequestTime)
	r.Use(request.Recovery(d.Logger))
	r.Use(request.Logger(d.Logger))

	r.Get("/healthz", healthHandler(d.Health))
	r.Handle("/metrics", promhttp.Handler())

	d.Verification.Register(r)
	d.Reports.Register(r)

	return r
}

func healthHandler(checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[c.Name] = err.Error()
			} else {
				body[c.Name] = "ok"
			}
		}
		httputil.WriteJSON(w, status, body)
	}
}
