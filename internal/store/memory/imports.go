// Package memory provides an in-process ImportRepository.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/JakeFAU/catalog-console/internal/catalog"
	"github.com/JakeFAU/catalog-console/internal/store"
)

// ImportStore keeps import records in a map guarded by a RWMutex.
type ImportStore struct {
	mu      sync.RWMutex
	records map[string]store.ImportRecord
}

var _ store.ImportRepository = (*ImportStore)(nil)

// NewImportStore constructs an empty ImportStore.
func NewImportStore() *ImportStore {
	return &ImportStore{records: make(map[string]store.ImportRecord)}
}

// Record implements store.ImportRepository.
func (s *ImportStore) Record(_ context.Context, rec store.ImportRecord) error {
	if rec.JobID == "" {
		return errors.New("job id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.records[rec.JobID]
	if !ok {
		if rec.StartedAt.IsZero() {
			rec.StartedAt = rec.UpdatedAt
		}
		if rec.Terminal() && rec.FinishedAt == nil {
			finished := rec.UpdatedAt
			rec.FinishedAt = &finished
		}
		s.records[rec.JobID] = rec
		return nil
	}
	if existing.Terminal() {
		return nil
	}
	if rec.Filename == "" {
		rec.Filename = existing.Filename
	}
	if rec.Stage == "" {
		rec.Stage = existing.Stage
	}
	rec.StartedAt = existing.StartedAt
	if rec.UpdatedAt.Before(existing.UpdatedAt) {
		rec.UpdatedAt = existing.UpdatedAt
	}
	if rec.Terminal() {
		finished := rec.UpdatedAt
		rec.FinishedAt = &finished
	}
	s.records[rec.JobID] = rec
	return nil
}

// Get implements store.ImportRepository.
func (s *ImportStore) Get(_ context.Context, jobID string) (store.ImportRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[jobID]
	if !ok {
		return store.ImportRecord{}, store.ErrNotFound
	}
	return rec, nil
}

// List implements store.ImportRepository.
func (s *ImportStore) List(
	_ context.Context,
	status *catalog.JobStatus,
	limit, offset int,
) ([]store.ImportRecord, error) {
	s.mu.RLock()
	out := make([]store.ImportRecord, 0, len(s.records))
	for _, rec := range s.records {
		if status != nil && rec.Status != *status {
			continue
		}
		out = append(out, rec)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].JobID < out[j].JobID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if offset < 0 {
		offset = 0
	}
	if offset >= len(out) {
		return []store.ImportRecord{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
