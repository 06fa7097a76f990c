package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mpetkov/fuelbook/backend/internal/observability"
)

// NewMetrics returns a middleware that records per-request Prometheus
// counters and latency histograms. The path label uses the chi route
// pattern (e.g. /vehicles/{vehicleID}/trips) rather than the raw URL, so
// label cardinality stays bounded.
//
// Wire it inside the chi router so the route context is populated by the
// time the downstream handler returns.
func NewMetrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				path = rctx.RoutePattern()
			}
			status := strconv.Itoa(ww.Status())
			observability.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			observability.HTTPRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		})
	}
}
