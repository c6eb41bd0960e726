package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// TestClientInstrumentRoundTripper verifies backend calls are counted by method and code.
func TestClientInstrumentRoundTripper(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	reg := prometheus.NewRegistry()
	m, err := NewClient(reg)
	require.NoError(t, err)
	client := &http.Client{Transport: m.InstrumentRoundTripper(http.DefaultTransport)}

	for _, path := range []string{"/products", "/products", "/missing"} {
		resp, err := client.Get(backend.URL + path)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
	}

	require.InDelta(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("get", "200")), 1e-9)
	require.InDelta(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("get", "404")), 1e-9)
	require.InDelta(t, 0.0, testutil.ToFloat64(m.inFlight), 1e-9)
	require.Equal(t, 1, testutil.CollectAndCount(m.duration, "catalog_backend_request_duration_seconds"))
}

func TestClientObserveRateLimitWait(t *testing.T) {
	t.Parallel()

	m, err := NewClient(prometheus.NewRegistry())
	require.NoError(t, err)
	m.ObserveRateLimitWait("backend.test", 150*time.Millisecond)
	require.Equal(t, 1, testutil.CollectAndCount(m.rateLimitWait, "catalog_backend_rate_limit_wait_seconds"))
}

func TestNewClientDuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := NewClient(reg)
	require.NoError(t, err)
	_, err = NewClient(reg)
	require.Error(t, err)
}

// TestServerMiddleware checks requests are labeled with the chi route pattern.
func TestServerMiddleware(t *testing.T) {
	t.Parallel()

	s, err := NewServer(prometheus.NewRegistry())
	require.NoError(t, err)
	r := chi.NewRouter()
	r.Use(s.Middleware)
	r.Get("/api/imports/{job_id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/imports/job-1", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.InDelta(t, 1.0, testutil.ToFloat64(s.requests.WithLabelValues("GET", "/api/imports/{job_id}", "404")), 1e-9)
}
