package sinks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/JakeFAU/catalog-console/internal/catalog"
	"github.com/JakeFAU/catalog-console/internal/progress"
	"github.com/JakeFAU/catalog-console/internal/store"
	"github.com/JakeFAU/catalog-console/internal/store/memory"
)

// TestStoreSinkPersistsLatestPerJob ensures a batch collapses to one write per job.
func TestStoreSinkPersistsLatestPerJob(t *testing.T) {
	t.Parallel()

	repo := &fakeImportRepo{}
	sink := NewStoreSink(repo, nil)
	now := time.Now().UTC()

	batch := []progress.Event{
		{JobID: "job-1", TS: now, Status: catalog.JobQueued, Source: "products.csv"},
		{JobID: "job-2", TS: now, Status: catalog.JobRunning, Stage: "parsing"},
		{JobID: "job-1", TS: now.Add(time.Second), Status: catalog.JobRunning, Stage: "importing", ProcessedRows: 25, TotalRows: 100, Percent: 25},
		{JobID: "job-1", TS: now.Add(2 * time.Second), Status: catalog.JobCompleted, Stage: "importing", ProcessedRows: 100, TotalRows: 100, Percent: 100},
		{JobID: "job-1", TS: now.Add(3 * time.Second), Status: catalog.JobRunning},
	}
	require.NoError(t, sink.Consume(context.Background(), batch))

	require.Len(t, repo.records, 2)
	first := repo.records[0]
	require.Equal(t, "job-1", first.JobID)
	require.Equal(t, catalog.JobCompleted, first.Status)
	require.Equal(t, "products.csv", first.Filename)
	require.Equal(t, now, first.StartedAt)
	require.Equal(t, "job-2", repo.records[1].JobID)
}

// TestStoreSinkHandlesErrors surfaces repository failures back to the caller.
func TestStoreSinkHandlesErrors(t *testing.T) {
	t.Parallel()

	repo := &fakeImportRepo{err: errors.New("boom")}
	sink := NewStoreSink(repo, nil)
	err := sink.Consume(context.Background(), []progress.Event{
		{JobID: "job-1", TS: time.Now(), Status: catalog.JobRunning},
	})
	require.ErrorContains(t, err, "boom")
}

func TestStoreSinkWithMemoryRepository(t *testing.T) {
	t.Parallel()

	repo := memory.NewImportStore()
	sink := NewStoreSink(repo, nil)
	now := time.Now().UTC()
	require.NoError(t, sink.Consume(context.Background(), []progress.Event{
		{JobID: "job-7", TS: now, Status: catalog.JobQueued, Source: "items.xlsx"},
	}))
	require.NoError(t, sink.Consume(context.Background(), []progress.Event{
		{JobID: "job-7", TS: now.Add(time.Second), Status: catalog.JobFailed, Note: "Import failed"},
	}))

	rec, err := repo.Get(context.Background(), "job-7")
	require.NoError(t, err)
	require.Equal(t, "items.xlsx", rec.Filename)
	require.Equal(t, "Import failed", rec.ErrorMessage)
	require.NotNil(t, rec.FinishedAt)
}

func TestLogSinkWritesStructuredFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	sink := NewLogSink(zap.New(core))
	require.NoError(t, sink.Consume(context.Background(), []progress.Event{
		{JobID: "job-1", TS: time.Now(), Status: catalog.JobFailed, Note: "bad row", Source: "a.csv"},
	}))
	require.NoError(t, sink.Close(context.Background()))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "job-1", fields["job_id"])
	require.Equal(t, "failed", fields["status"])
	require.Equal(t, "bad row", fields["note"])
	require.Equal(t, "a.csv", fields["source"])
}

type fakeImportRepo struct {
	records []store.ImportRecord
	err     error
}

func (f *fakeImportRepo) Record(_ context.Context, rec store.ImportRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeImportRepo) Get(context.Context, string) (store.ImportRecord, error) {
	return store.ImportRecord{}, store.ErrNotFound
}

func (f *fakeImportRepo) List(context.Context, *catalog.JobStatus, int, int) ([]store.ImportRecord, error) {
	return f.records, nil
}
