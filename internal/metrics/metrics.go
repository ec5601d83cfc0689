// Package metrics provides Prometheus metric collection and exposition.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records emulator metrics. A nil *Collector is a no-op, so
// callers never need to guard their Record calls.
type Collector struct {
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	tokensIssued   *prometheus.CounterVec
	playersCreated prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
// The labels identify the deployment (service name, environment); they are
// observability tags only and never affect behavior.
func NewCollector(reg prometheus.Registerer, constLabels prometheus.Labels) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "psnemu_http_requests_total",
			Help:        "HTTP requests by method, route, and status code",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "psnemu_http_request_duration_seconds",
			Help:        "HTTP request latency in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route"}),
		tokensIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "psnemu_tokens_issued_total",
			Help:        "Token pairs issued by grant type",
			ConstLabels: constLabels,
		}, []string{"grant_type"}),
		playersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "psnemu_players_created_total",
			Help:        "Player accounts created",
			ConstLabels: constLabels,
		}),
	}

	reg.MustRegister(c.httpRequests, c.httpDuration, c.tokensIssued, c.playersCreated)
	return c
}

// RecordRequest records one completed HTTP request
func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordTokenIssued records an issued token pair
func (c *Collector) RecordTokenIssued(grantType string) {
	if c == nil {
		return
	}
	c.tokensIssued.WithLabelValues(grantType).Inc()
}

// RecordPlayerCreated records a created player account
func (c *Collector) RecordPlayerCreated() {
	if c == nil {
		return
	}
	c.playersCreated.Inc()
}

// SetupMetricsRoute returns the handler for the /metrics endpoint
func SetupMetricsRoute(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
