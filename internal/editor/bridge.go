package editor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/JakeFAU/catalog-console/internal/listsync"
)

// Draft is an editable snapshot of an entity. ID 0 means the draft creates a
// new entity on save.
type Draft[F any] struct {
	ID     int64
	Fields F
}

// IsNew reports whether saving d issues a create.
func (d Draft[F]) IsNew() bool {
	return d.ID == 0
}

// Gateway performs the write requests for one entity type.
type Gateway[T, F any] interface {
	Create(ctx context.Context, fields F) (T, error)
	Update(ctx context.Context, id int64, fields F) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Reloader refreshes the list an editor writes to.
type Reloader interface {
	Refresh(ctx context.Context) error
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// ErrNotConfirmed is returned when the operator declines a destructive action.
var ErrNotConfirmed = errors.New("action not confirmed")

// Config wires a Bridge.
type Config[T, F any] struct {
	// Noun names the entity in prompts and logs, e.g. "product".
	Noun    string
	Gateway Gateway[T, F]
	Reload  Reloader
	// ToDraft converts a typed row item into a draft.
	ToDraft func(item T) Draft[F]
	// Blank returns the fields of a new draft.
	Blank     func() F
	Validator *Validator
	Logger    *zap.Logger
}

// Bridge turns rows into drafts and drafts into backend writes.
type Bridge[T, F any] struct {
	noun     string
	gateway  Gateway[T, F]
	reload   Reloader
	toDraft  func(T) Draft[F]
	blank    func() F
	validate *Validator
	logger   *zap.Logger
}

// NewBridge validates cfg and builds a Bridge.
func NewBridge[T, F any](cfg Config[T, F]) (*Bridge[T, F], error) {
	if cfg.Gateway == nil {
		return nil, errors.New("editor: gateway is required")
	}
	if cfg.ToDraft == nil {
		return nil, errors.New("editor: draft converter is required")
	}
	if cfg.Blank == nil {
		cfg.Blank = func() F {
			var zero F
			return zero
		}
	}
	if cfg.Validator == nil {
		cfg.Validator = NewValidator()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge[T, F]{
		noun:     cfg.Noun,
		gateway:  cfg.Gateway,
		reload:   cfg.Reload,
		toDraft:  cfg.ToDraft,
		blank:    cfg.Blank,
		validate: cfg.Validator,
		logger:   logger.With(zap.String("entity", cfg.Noun)),
	}, nil
}

// BeginEdit snapshots the row's typed item into a draft.
func (b *Bridge[T, F]) BeginEdit(row listsync.Row[T]) Draft[F] {
	return b.toDraft(row.Item)
}

// New returns a blank draft that creates on save.
func (b *Bridge[T, F]) New() Draft[F] {
	return Draft[F]{Fields: b.blank()}
}

// Save validates the draft locally, then creates (ID 0) or updates it and
// reloads the list. Validation failures return *catalog.ValidationError with
// no request sent; rejected writes return the backend's *catalog.RequestError.
func (b *Bridge[T, F]) Save(ctx context.Context, d Draft[F]) (T, error) {
	var zero T
	if err := b.validate.Check(d.Fields); err != nil {
		return zero, err
	}
	var (
		saved T
		err   error
	)
	if d.IsNew() {
		saved, err = b.gateway.Create(ctx, d.Fields)
	} else {
		saved, err = b.gateway.Update(ctx, d.ID, d.Fields)
	}
	if err != nil {
		b.logger.Warn("save rejected", zap.Int64("id", d.ID), zap.Error(err))
		return zero, err
	}
	b.logger.Info("saved", zap.Int64("id", d.ID), zap.Bool("created", d.IsNew()))
	return saved, b.refresh(ctx)
}

// Delete removes one entity after confirmation and reloads the list.
func (b *Bridge[T, F]) Delete(ctx context.Context, id int64, c Confirmer) error {
	if !confirmed(c, fmt.Sprintf("Delete this %s?", b.noun)) {
		return ErrNotConfirmed
	}
	if err := b.gateway.Delete(ctx, id); err != nil {
		return err
	}
	b.logger.Info("deleted", zap.Int64("id", id))
	return b.refresh(ctx)
}

func (b *Bridge[T, F]) refresh(ctx context.Context) error {
	if b.reload == nil {
		return nil
	}
	if err := b.reload.Refresh(ctx); err != nil {
		return fmt.Errorf("reload %ss: %w", b.noun, err)
	}
	return nil
}

func confirmed(c Confirmer, prompt string) bool {
	return c != nil && c.Confirm(prompt)
}
