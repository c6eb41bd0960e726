package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/catalog-console/internal/catalog"
	"github.com/JakeFAU/catalog-console/internal/metrics"
	"github.com/JakeFAU/catalog-console/internal/store"
	"github.com/JakeFAU/catalog-console/internal/store/memory"
)

func seededRepo(t *testing.T) *memory.ImportStore {
	t.Helper()
	repo := memory.NewImportStore()
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	ctx := context.Background()
	require.NoError(t, repo.Record(ctx, store.ImportRecord{
		JobID: "job-1", Filename: "a.csv", Status: catalog.JobCompleted, Percent: 100, UpdatedAt: base,
	}))
	require.NoError(t, repo.Record(ctx, store.ImportRecord{
		JobID: "job-2", Filename: "b.csv", Status: catalog.JobRunning, Percent: 40, UpdatedAt: base.Add(time.Minute),
	}))
	return repo
}

func serve(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServerHealthz(t *testing.T) {
	t.Parallel()

	s := NewServer(Options{})
	rec := serve(t, s, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestServerListImports(t *testing.T) {
	t.Parallel()

	s := NewServer(Options{Imports: seededRepo(t)})
	rec := serve(t, s, "/api/imports")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Imports []store.ImportRecord `json:"imports"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Imports, 2)
	require.Equal(t, "job-2", payload.Imports[0].JobID)

	rec = serve(t, s, "/api/imports?status=completed&limit=1")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Imports, 1)
	require.Equal(t, "job-1", payload.Imports[0].JobID)
}

func TestServerListImportsRejectsBadQuery(t *testing.T) {
	t.Parallel()

	s := NewServer(Options{Imports: seededRepo(t)})
	require.Equal(t, http.StatusBadRequest, serve(t, s, "/api/imports?status=cancelled").Code)
	require.Equal(t, http.StatusBadRequest, serve(t, s, "/api/imports?limit=0").Code)
	require.Equal(t, http.StatusBadRequest, serve(t, s, "/api/imports?offset=-1").Code)
}

func TestServerGetImport(t *testing.T) {
	t.Parallel()

	s := NewServer(Options{Imports: seededRepo(t)})
	rec := serve(t, s, "/api/imports/job-1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"filename":"a.csv"`)

	require.Equal(t, http.StatusNotFound, serve(t, s, "/api/imports/nope").Code)
}

func TestServerWithoutRepository(t *testing.T) {
	t.Parallel()

	s := NewServer(Options{})
	require.Equal(t, http.StatusServiceUnavailable, serve(t, s, "/api/imports").Code)
	require.Equal(t, http.StatusServiceUnavailable, serve(t, s, "/api/imports/job-1").Code)
}

func TestServerRepositoryError(t *testing.T) {
	t.Parallel()

	s := NewServer(Options{Imports: failingRepo{}})
	require.Equal(t, http.StatusInternalServerError, serve(t, s, "/api/imports").Code)
	require.Equal(t, http.StatusInternalServerError, serve(t, s, "/api/imports/job-1").Code)
}

func TestServerMetricsScrapesRegistry(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	srvMetrics, err := metrics.NewServer(reg)
	require.NoError(t, err)
	s := NewServer(Options{Gatherer: reg, Metrics: srvMetrics})

	require.Equal(t, http.StatusOK, serve(t, s, "/healthz").Code)
	rec := serve(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "catalog_status_http_requests_total")
}

func TestServerStartAndShutdown(t *testing.T) {
	t.Parallel()

	s := NewServer(Options{})
	addr, err := s.Start("127.0.0.1:0")
	require.NoError(t, err)

	resp, err := http.Get("http://" + addr.String() + "/healthz")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Contains(t, string(body), "ok")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	require.NoError(t, NewServer(Options{}).Shutdown(ctx))
}

type failingRepo struct{}

func (failingRepo) Record(context.Context, store.ImportRecord) error {
	return errors.New("boom")
}

func (failingRepo) Get(context.Context, string) (store.ImportRecord, error) {
	return store.ImportRecord{}, errors.New("boom")
}

func (failingRepo) List(context.Context, *catalog.JobStatus, int, int) ([]store.ImportRecord, error) {
	return nil, errors.New("boom")
}
