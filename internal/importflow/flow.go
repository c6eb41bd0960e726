package importflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/JakeFAU/catalog-console/internal/catalog"
	"github.com/JakeFAU/catalog-console/internal/clock"
	"github.com/JakeFAU/catalog-console/internal/progress"
)

const (
	// SelectFileMessage is the validation text when no file was chosen.
	SelectFileMessage = "Select a CSV file"
	// UploadingText is shown while the upload request is in flight.
	UploadingText = "Uploading..."
	// QueuedText is shown once the backend accepted the file.
	QueuedText = "Queued"
)

// Uploader sends an import file to the backend.
type Uploader interface {
	Upload(ctx context.Context, filename string, body io.Reader) (catalog.ImportJob, error)
}

// Refresher reloads a list view.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// View renders the import status and error regions.
type View interface {
	ShowStatus(text string)
	ShowProgress(percent int, text string)
	ShowError(message string)
	ClearError()
}

// Config wires a Flow.
type Config struct {
	Uploader   Uploader
	Subscriber progress.Subscriber
	// Resync enables the one-shot snapshot fetch when a stream drops.
	Resync   progress.JobFetcher
	View     View
	Products Refresher
	Emitter  progress.Emitter
	Clock    clock.Clock
	Logger   *zap.Logger
}

// Handle identifies one accepted submission and its progress channel.
type Handle struct {
	JobID   string
	Channel *progress.Channel
}

// Wait blocks until the job's channel finishes and returns the final snapshot.
func (h *Handle) Wait(ctx context.Context) (catalog.ImportJob, error) {
	return h.Channel.Wait(ctx)
}

// Flow submits import files. Each successful Submit opens an independent
// channel; earlier channels are never cancelled by a new submission.
type Flow struct {
	cfg    Config
	logger *zap.Logger

	mu      sync.Mutex
	handles []*Handle
}

// New constructs a Flow.
func New(cfg Config) (*Flow, error) {
	if cfg.Uploader == nil {
		return nil, errors.New("importflow: uploader is required")
	}
	if cfg.Subscriber == nil {
		return nil, errors.New("importflow: subscriber is required")
	}
	if cfg.View == nil {
		cfg.View = nopView{}
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{cfg: cfg, logger: logger}, nil
}

// Submit validates path, uploads it and starts following the returned job.
// Validation failures return *catalog.ValidationError before any request;
// a rejected upload returns the *catalog.RequestError and opens no channel.
func (f *Flow) Submit(ctx context.Context, path string) (*Handle, error) {
	view := f.cfg.View
	view.ClearError()

	path = strings.TrimSpace(path)
	if path == "" {
		err := &catalog.ValidationError{Fields: []string{"file"}, Message: SelectFileMessage}
		view.ShowError(err.Error())
		return nil, err
	}
	filename, body, err := readUpload(path)
	if err != nil {
		view.ShowError(err.Error())
		return nil, err
	}

	view.ShowStatus(UploadingText)
	job, err := f.cfg.Uploader.Upload(ctx, filename, strings.NewReader(body))
	if err != nil {
		view.ShowError(err.Error())
		f.logger.Warn("import upload rejected", zap.String("file", filename), zap.Error(err))
		return nil, err
	}
	if job.Status == "" {
		job.Status = catalog.JobQueued
	}
	view.ShowStatus(QueuedText)
	f.logger.Info("import queued", zap.String("job_id", job.ID), zap.String("file", filename))

	if f.cfg.Emitter != nil {
		f.cfg.Emitter.Emit(progress.Event{
			JobID:  job.ID,
			TS:     f.cfg.Clock.Now(),
			Stage:  job.Stage,
			Status: job.Status,
			Source: filename,
		})
	}

	ch := progress.Open(ctx, f.cfg.Subscriber, job, f.observer(ctx), progress.Options{
		Emitter: f.cfg.Emitter,
		Clock:   f.cfg.Clock,
		Logger:  f.logger,
		Resync:  f.cfg.Resync,
	})
	h := &Handle{JobID: job.ID, Channel: ch}
	f.mu.Lock()
	f.handles = append(f.handles, h)
	f.mu.Unlock()
	return h, nil
}

// Handles returns every submission accepted so far, oldest first.
func (f *Flow) Handles() []*Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Handle(nil), f.handles...)
}

// Close tears down every open channel.
func (f *Flow) Close() {
	for _, h := range f.Handles() {
		h.Channel.Close()
	}
}

func (f *Flow) observer(ctx context.Context) progress.Observer {
	view := f.cfg.View
	return progress.ObserverFuncs{
		OnProgress: func(u progress.Update) {
			view.ShowProgress(u.Percent, u.Text)
		},
		OnFailed: func(u progress.Update) {
			view.ShowProgress(u.Percent, u.Text)
			view.ShowError(u.Failure.Message)
		},
		OnCompleted: func(u progress.Update) {
			view.ShowProgress(u.Percent, u.Text)
			if f.cfg.Products == nil {
				return
			}
			if err := f.cfg.Products.Refresh(context.WithoutCancel(ctx)); err != nil {
				f.logger.Warn("products refresh after import failed",
					zap.String("job_id", u.Job.ID), zap.Error(err))
			}
		},
	}
}

// readUpload loads path, converting workbooks to CSV.
func readUpload(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", &catalog.ValidationError{
			Fields:  []string{"file"},
			Message: fmt.Sprintf("cannot read %s: %v", filepath.Base(path), unwrapPathError(err)),
		}
	}
	if !isWorkbook(path) {
		return filepath.Base(path), string(data), nil
	}
	converted, err := WorkbookToCSV(data)
	if err != nil {
		return "", "", &catalog.ValidationError{
			Fields:  []string{"file"},
			Message: fmt.Sprintf("cannot convert %s: %v", filepath.Base(path), err),
		}
	}
	return csvName(path), string(converted), nil
}

func unwrapPathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}

type nopView struct{}

func (nopView) ShowStatus(string)        {}
func (nopView) ShowProgress(int, string) {}
func (nopView) ShowError(string)         {}
func (nopView) ClearError()              {}
