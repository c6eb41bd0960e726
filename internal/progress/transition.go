package progress

import (
	"fmt"

	"github.com/JakeFAU/catalog-console/internal/catalog"
)

const (
	// DefaultFailureMessage is shown when a failed event carries no error text.
	DefaultFailureMessage = "Import failed"
	// CompletedText replaces the progress text once an import completes.
	CompletedText = "Import Complete"
)

// Outcome classifies an applied message.
type Outcome int

// Possible outcomes of Apply.
const (
	OutcomeProgress Outcome = iota
	OutcomeCompleted
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeFailed:
		return "failed"
	default:
		return "progress"
	}
}

// Terminal reports whether the channel must close after this outcome.
func (o Outcome) Terminal() bool {
	return o != OutcomeProgress
}

// Update is the result of applying one message to a job.
type Update struct {
	Job     catalog.ImportJob
	Percent int
	// Text is the progress line, or CompletedText for a completed job.
	Text    string
	Outcome Outcome
	// Failure is set only for OutcomeFailed.
	Failure *catalog.JobFailure
}

// Apply folds msg into job. It is pure: the channel calls it for every
// message, and tests can drive it without a live connection.
func Apply(job catalog.ImportJob, msg Message) Update {
	next := job
	if msg.Stage != "" {
		next.Stage = msg.Stage
	}
	if msg.Status != "" {
		next.Status = msg.Status
	}
	next.ProcessedRows = msg.ProcessedRows
	next.TotalRows = msg.TotalRows

	pct := Percent(msg.ProcessedRows, msg.TotalRows)
	u := Update{
		Percent: pct,
		Text:    fmt.Sprintf("%s - %d%% (%d/%d)", next.Stage, pct, msg.ProcessedRows, msg.TotalRows),
		Outcome: OutcomeProgress,
	}

	switch msg.Status {
	case catalog.JobFailed:
		text := DefaultFailureMessage
		if msg.ErrorMessage != nil && *msg.ErrorMessage != "" {
			text = *msg.ErrorMessage
		}
		next.ErrorMessage = text
		u.Outcome = OutcomeFailed
		u.Failure = &catalog.JobFailure{JobID: next.ID, Message: text}
	case catalog.JobCompleted:
		next.ErrorMessage = ""
		u.Outcome = OutcomeCompleted
		u.Text = CompletedText
	}
	u.Job = next
	return u
}
