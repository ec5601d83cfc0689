package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/psn-tools/psnemu/internal/metrics"
)

// Metrics creates middleware that records request counts and latencies.
// The route label uses the matched mux path template so per-player paths
// collapse into one series.
func Metrics(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &ResponseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tmpl, err := current.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}

			collector.RecordRequest(r.Method, route, wrapped.status, time.Since(start))
		})
	}
}
