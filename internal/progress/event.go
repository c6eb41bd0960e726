package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/JakeFAU/catalog-console/internal/catalog"
)

// Event is the hub representation of one applied progress update.
type Event struct {
	// JobID is the backend-assigned import identifier.
	JobID string
	// TS is the UTC time the console applied the update.
	TS time.Time
	// Stage is the backend's free-form processing phase.
	Stage  string
	Status catalog.JobStatus
	// ProcessedRows and TotalRows mirror the message counters.
	ProcessedRows int64
	TotalRows     int64
	Percent       int
	// Note carries the failure text for failed jobs.
	Note string
	// Source names the uploaded file. Only the submission event sets it.
	Source string
}

// NewEvent builds the Event for an applied update.
func NewEvent(u Update, ts time.Time) Event {
	evt := Event{
		JobID:         u.Job.ID,
		TS:            ts,
		Stage:         u.Job.Stage,
		Status:        u.Job.Status,
		ProcessedRows: u.Job.ProcessedRows,
		TotalRows:     u.Job.TotalRows,
		Percent:       u.Percent,
	}
	if u.Failure != nil {
		evt.Note = u.Failure.Message
	}
	return evt
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.JobID == "" {
		return errors.New("job id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	if e.ProcessedRows < 0 || e.TotalRows < 0 {
		return errors.New("row counters must be >= 0")
	}
	if e.Status == "" {
		return fmt.Errorf("status is required")
	}
	return nil
}

// Job returns the job snapshot carried by the event.
func (e Event) Job() catalog.ImportJob {
	job := catalog.ImportJob{
		ID:            e.JobID,
		Stage:         e.Stage,
		Status:        e.Status,
		ProcessedRows: e.ProcessedRows,
		TotalRows:     e.TotalRows,
	}
	if e.Status == catalog.JobFailed {
		job.ErrorMessage = e.Note
	}
	return job
}
