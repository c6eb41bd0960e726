package store

import (
	"context"
	"errors"
	"time"

	"github.com/JakeFAU/catalog-console/internal/catalog"
)

// ErrNotFound signals that the requested record does not exist.
var ErrNotFound = errors.New("import record not found")

// ImportRecord is the console's view of one submitted import.
type ImportRecord struct {
	JobID string `json:"job_id"`
	// Filename is the local file that was uploaded, when known.
	Filename      string            `json:"filename,omitempty"`
	Stage         string            `json:"stage"`
	Status        catalog.JobStatus `json:"status"`
	ProcessedRows int64             `json:"processed_rows"`
	TotalRows     int64             `json:"total_rows"`
	Percent       int               `json:"percent"`
	ErrorMessage  string            `json:"error_message,omitempty"`
	StartedAt     time.Time         `json:"started_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	// FinishedAt is nil until the job reaches a terminal status.
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Terminal reports whether the record reached completed or failed.
func (r ImportRecord) Terminal() bool {
	return r.Status.IsTerminal()
}

// ImportRepository persists import progress observed by the console.
type ImportRepository interface {
	// Record inserts or updates the record for rec.JobID. Updates arriving
	// after the record is terminal are ignored.
	Record(ctx context.Context, rec ImportRecord) error
	// Get returns one record or ErrNotFound.
	Get(ctx context.Context, jobID string) (ImportRecord, error)
	// List returns records newest first, optionally filtered by status.
	List(ctx context.Context, status *catalog.JobStatus, limit, offset int) ([]ImportRecord, error)
}
