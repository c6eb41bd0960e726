package progress

import (
	"encoding/json"
	"fmt"

	"github.com/JakeFAU/catalog-console/internal/catalog"
)

// Message is one status payload received on a job's progress stream.
type Message struct {
	ID            string            `json:"id,omitempty"`
	Stage         string            `json:"stage"`
	Status        catalog.JobStatus `json:"status"`
	ProcessedRows int64             `json:"processed_rows"`
	TotalRows     int64             `json:"total_rows"`
	// ErrorMessage is nil when the field is absent from the payload.
	ErrorMessage *string `json:"error_message,omitempty"`
}

// ParseMessage decodes a stream payload.
func ParseMessage(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("decode progress message: %w", err)
	}
	return msg, nil
}

// MessageFromJob converts a job snapshot (e.g. from GET /jobs/{id}) into the
// message form so it can be applied like a streamed event.
func MessageFromJob(job catalog.ImportJob) Message {
	msg := Message{
		ID:            job.ID,
		Stage:         job.Stage,
		Status:        job.Status,
		ProcessedRows: job.ProcessedRows,
		TotalRows:     job.TotalRows,
	}
	if job.ErrorMessage != "" {
		errMsg := job.ErrorMessage
		msg.ErrorMessage = &errMsg
	}
	return msg
}

// Percent is floor(processed/total*100) when total > 0 and 0 otherwise. An
// unknown total reports 0% rather than an undefined value.
func Percent(processed, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(processed * 100 / total)
}
