package catalog

import (
	"fmt"
	"net/http"
	"strings"
)

// ValidationError is raised locally before any network call is made.
type ValidationError struct {
	// Fields lists the offending payload fields, if any.
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RequiredFields builds the ValidationError for missing required fields,
// e.g. "sku and name are required".
func RequiredFields(fields ...string) *ValidationError {
	var msg string
	switch len(fields) {
	case 0:
		msg = "required field missing"
	case 1:
		msg = fields[0] + " is required"
	default:
		msg = strings.Join(fields[:len(fields)-1], ", ") + " and " + fields[len(fields)-1] + " are required"
	}
	return &ValidationError{Fields: fields, Message: msg}
}

// RequestError is a non-2xx backend response. Its message is the raw body.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	if strings.TrimSpace(e.Body) != "" {
		return e.Body
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// ChannelError is a transport fault on a job's progress stream.
type ChannelError struct {
	JobID string
	Err   error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("progress channel for job %s: %v", e.JobID, e.Err)
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}

// JobFailure is the authoritative error of an import that ended with
// status=failed. It is distinct from a RequestError on the upload itself.
type JobFailure struct {
	JobID   string
	Message string
}

func (e *JobFailure) Error() string {
	return e.Message
}
