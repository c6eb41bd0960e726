package catalog

// JobStatus is the lifecycle state of an import job.
type JobStatus string

// Import job statuses reported by the progress stream.
const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// IsTerminal reports whether no further progress can follow s.
func (s JobStatus) IsTerminal() bool {
	return s == JobCompleted || s == JobFailed
}

// ImportJob is the client-side view of one bulk import. It is created from the
// upload response and then only mutated by messages on its progress channel.
type ImportJob struct {
	ID            string    `json:"id"`
	Stage         string    `json:"stage"`
	Status        JobStatus `json:"status"`
	ProcessedRows int64     `json:"processed_rows"`
	TotalRows     int64     `json:"total_rows"`
	// ErrorMessage is only populated once Status is JobFailed.
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewImportJob returns the job state assumed before the first event arrives.
func NewImportJob(id string) ImportJob {
	return ImportJob{ID: id, Stage: string(JobQueued), Status: JobQueued}
}
