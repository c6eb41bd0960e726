package sinks

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/JakeFAU/catalog-console/internal/progress"
	"github.com/JakeFAU/catalog-console/internal/store"
)

// StoreSink persists import history via a store.ImportRepository. Within one
// batch only the latest event per job is written.
type StoreSink struct {
	repo   store.ImportRepository
	logger *zap.Logger
}

// NewStoreSink constructs a StoreSink for the provided repository.
func NewStoreSink(repo store.ImportRepository, logger *zap.Logger) *StoreSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreSink{repo: repo, logger: logger}
}

// Consume collapses the batch per job and forwards it to the repository. It
// respects ctx deadlines and wraps repository errors.
func (s *StoreSink) Consume(ctx context.Context, batch []progress.Event) error {
	if s == nil || s.repo == nil {
		return nil
	}
	order := make([]string, 0, len(batch))
	latest := make(map[string]store.ImportRecord, len(batch))
	for _, evt := range batch {
		rec, seen := latest[evt.JobID]
		if !seen {
			order = append(order, evt.JobID)
		}
		if rec.Terminal() {
			continue
		}
		next := recordFromEvent(evt)
		if next.Filename == "" {
			next.Filename = rec.Filename
		}
		if seen && rec.StartedAt.Before(next.StartedAt) {
			next.StartedAt = rec.StartedAt
		}
		latest[evt.JobID] = next
	}
	for _, jobID := range order {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("record import: %w", err)
		}
		if err := s.repo.Record(ctx, latest[jobID]); err != nil {
			return fmt.Errorf("record import %s: %w", jobID, err)
		}
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *StoreSink) Close(context.Context) error {
	return nil
}

func recordFromEvent(evt progress.Event) store.ImportRecord {
	return store.ImportRecord{
		JobID:         evt.JobID,
		Filename:      evt.Source,
		Stage:         evt.Stage,
		Status:        evt.Status,
		ProcessedRows: evt.ProcessedRows,
		TotalRows:     evt.TotalRows,
		Percent:       evt.Percent,
		ErrorMessage:  evt.Note,
		StartedAt:     evt.TS,
		UpdatedAt:     evt.TS,
	}
}
