package console

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/JakeFAU/catalog-console/internal/catalog"
	"github.com/JakeFAU/catalog-console/internal/clock"
	"github.com/JakeFAU/catalog-console/internal/editor"
	"github.com/JakeFAU/catalog-console/internal/importflow"
	"github.com/JakeFAU/catalog-console/internal/listsync"
	"github.com/JakeFAU/catalog-console/internal/progress"
)

// Backend is everything the console calls on the catalog service.
// *backend.Client satisfies it.
type Backend interface {
	listsync.ProductLister
	listsync.WebhookLister
	editor.ProductAPI
	editor.WebhookAPI
	importflow.Uploader
	progress.Subscriber
	progress.JobFetcher
}

// SessionOptions configures a Session.
type SessionOptions struct {
	// PageSize is the fixed product page size.
	PageSize int
	// Resync enables the one-shot job snapshot when a progress stream drops.
	Resync  bool
	Emitter progress.Emitter
	Clock   clock.Clock
	Out     io.Writer
	ErrOut  io.Writer
	Logger  *zap.Logger
}

// Session holds the independent per-entity state of one console run.
type Session struct {
	Products      *listsync.Store[catalog.Product]
	Webhooks      *listsync.Store[catalog.Webhook]
	ProductEditor *editor.ProductBridge
	WebhookEditor *editor.WebhookBridge
	Imports       *importflow.Flow
	ImportView    *ProgressPrinter
	ProductsTable *TableView[catalog.Product]
	WebhooksTable *TableView[catalog.Webhook]
}

// NewSession wires stores, editors and the import flow to api.
func NewSession(api Backend, opts SessionOptions) (*Session, error) {
	if api == nil {
		return nil, errors.New("console: backend is required")
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Session{
		ImportView:    NewProgressPrinter(opts.Out, opts.ErrOut),
		ProductsTable: NewTableView[catalog.Product](opts.Out, listsync.ProductColumns),
		WebhooksTable: NewTableView[catalog.Webhook](opts.Out, listsync.WebhookColumns),
	}
	var err error
	if s.Products, err = listsync.NewProductStore(api, opts.PageSize, s.ProductsTable, logger); err != nil {
		return nil, fmt.Errorf("build products store: %w", err)
	}
	if s.Webhooks, err = listsync.NewWebhookStore(api, s.WebhooksTable, logger); err != nil {
		return nil, fmt.Errorf("build webhooks store: %w", err)
	}

	v := editor.NewValidator()
	if s.ProductEditor, err = editor.NewProductBridge(api, s.Products, v, logger); err != nil {
		return nil, fmt.Errorf("build product editor: %w", err)
	}
	if s.WebhookEditor, err = editor.NewWebhookBridge(api, s.Webhooks, v, logger); err != nil {
		return nil, fmt.Errorf("build webhook editor: %w", err)
	}

	var resync progress.JobFetcher
	if opts.Resync {
		resync = api
	}
	s.Imports, err = importflow.New(importflow.Config{
		Uploader:   api,
		Subscriber: api,
		Resync:     resync,
		View:       s.ImportView,
		Products:   s.Products,
		Emitter:    opts.Emitter,
		Clock:      opts.Clock,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build import flow: %w", err)
	}
	return s, nil
}

// Close tears down any import channels still open.
func (s *Session) Close() {
	if s.Imports != nil {
		s.Imports.Close()
	}
}
