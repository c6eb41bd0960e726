package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Server records requests served by the status server.
type Server struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewServer registers the status server collectors against reg.
func NewServer(reg prometheus.Registerer) (*Server, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &Server{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_status_http_requests_total",
			Help: "Status server requests, labeled by method, route and code.",
		}, []string{"method", "route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_status_http_request_duration_seconds",
			Help:    "Status server latencies, labeled by method and route.",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"method", "route"}),
	}
	for _, c := range []prometheus.Collector{s.requests, s.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register server collector: %w", err)
		}
	}
	return s, nil
}

// Middleware is a chi middleware that records HTTP request metrics.
func (s *Server) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		s.requests.WithLabelValues(r.Method, route, strconv.Itoa(ww.status)).Inc()
		s.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
