// Package metrics exposes Prometheus collectors for the console's backend
// client and its local status server.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Client holds the collectors describing requests sent to the catalog backend.
type Client struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	inFlight      prometheus.Gauge
	rateLimitWait *prometheus.HistogramVec
}

// NewClient registers the backend client collectors against reg.
func NewClient(reg prometheus.Registerer) (*Client, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Client{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_backend_requests_total",
			Help: "Requests sent to the catalog backend, labeled by method and code.",
		}, []string{"method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_backend_request_duration_seconds",
			Help:    "Time to response headers for backend requests, labeled by method.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"method"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_backend_requests_in_flight",
			Help: "Backend requests currently awaiting a response, progress streams included.",
		}),
		rateLimitWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_backend_rate_limit_wait_seconds",
			Help:    "Time requests spent waiting on the client-side rate limiter.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		}, []string{"host"}),
	}
	for _, c := range []prometheus.Collector{m.requests, m.duration, m.inFlight, m.rateLimitWait} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register client collector: %w", err)
		}
	}
	return m, nil
}

// InstrumentRoundTripper wraps next with request, duration and in-flight
// instrumentation.
func (m *Client) InstrumentRoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperInFlight(m.inFlight,
		promhttp.InstrumentRoundTripperCounter(m.requests,
			promhttp.InstrumentRoundTripperDuration(m.duration, next),
		),
	)
}

// ObserveRateLimitWait records a rate limiter delay for host.
func (m *Client) ObserveRateLimitWait(host string, waited time.Duration) {
	m.rateLimitWait.WithLabelValues(host).Observe(waited.Seconds())
}
