package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/JakeFAU/catalog-console/internal/catalog"
)

// Upload sends body as the multipart "file" field of POST /upload and returns
// the job handle assigned by the backend. Uploads use the streaming client so
// large files are not cut off by the request timeout; ctx bounds them instead.
func (c *Client) Upload(ctx context.Context, filename string, body io.Reader) (catalog.ImportJob, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(filename))
		if err == nil {
			_, err = io.Copy(part, body)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/upload", nil), pr)
	if err != nil {
		_ = pr.Close()
		return catalog.ImportJob{}, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.stream.Do(req)
	if err != nil {
		return catalog.ImportJob{}, fmt.Errorf("POST /upload: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body
	if err := checkStatus(resp, http.MethodPost, "/upload"); err != nil {
		return catalog.ImportJob{}, err
	}
	job := catalog.ImportJob{}
	if err := decodeJSON(resp.Body, &job); err != nil {
		return catalog.ImportJob{}, fmt.Errorf("decode upload response: %w", err)
	}
	if job.ID == "" {
		return catalog.ImportJob{}, errors.New("upload response did not include a job id")
	}
	if job.Status == "" {
		job.Status = catalog.JobQueued
	}
	return job, nil
}

// GetJob fetches the current snapshot of a job via GET /jobs/{id}.
func (c *Client) GetJob(ctx context.Context, jobID string) (catalog.ImportJob, error) {
	var job catalog.ImportJob
	if err := c.do(ctx, http.MethodGet, jobPath(jobID), nil, nil, &job); err != nil {
		return catalog.ImportJob{}, err
	}
	return job, nil
}

// Subscribe opens GET /jobs/{id}/events and calls handle with the data of
// every message event, in delivery order, on the calling goroutine. It
// returns nil when the backend ends the stream, ctx.Err() once ctx is
// canceled, and a *catalog.ChannelError for any transport fault.
func (c *Client) Subscribe(ctx context.Context, jobID string, handle func(data []byte)) error {
	path := jobPath(jobID) + "/events"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, nil), nil)
	if err != nil {
		return &catalog.ChannelError{JobID: jobID, Err: err}
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.stream.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &catalog.ChannelError{JobID: jobID, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body
	if err := checkStatus(resp, http.MethodGet, path); err != nil {
		return &catalog.ChannelError{JobID: jobID, Err: err}
	}
	if mt, _, perr := mime.ParseMediaType(resp.Header.Get("Content-Type")); perr != nil || mt != "text/event-stream" {
		return &catalog.ChannelError{JobID: jobID, Err: errStreamContentType}
	}

	reader := newEventReader(resp.Body)
	for {
		evt, err := reader.Next()
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			c.logger.Debug("progress stream ended", zap.String("job_id", jobID))
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			return &catalog.ChannelError{JobID: jobID, Err: err}
		}
		if !isMessage(evt) {
			continue
		}
		handle(evt.Data)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func jobPath(jobID string) string {
	return "/jobs/" + url.PathEscape(jobID)
}
