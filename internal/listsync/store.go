package listsync

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrRowNotFound is returned by Locate when no row matches.
var ErrRowNotFound = errors.New("row not found")

// Page is one fetched page of items.
type Page[T any] struct {
	Items    []T
	Page     int
	PageSize int
	Total    int
}

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool {
	return p.PageSize > 0 && p.Page*p.PageSize < p.Total
}

// Info renders the page footer, e.g. "Page 2 • 31 total".
func (p Page[T]) Info() string {
	return fmt.Sprintf("Page %d • %d total", p.Page, p.Total)
}

// Fetcher loads one page for a query.
type Fetcher[T any] interface {
	Fetch(ctx context.Context, q Query) (Page[T], error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc[T any] func(ctx context.Context, q Query) (Page[T], error)

// Fetch implements Fetcher.
func (f FetcherFunc[T]) Fetch(ctx context.Context, q Query) (Page[T], error) {
	return f(ctx, q)
}

// Row pairs the typed item with its display cells. Editors read Item, never
// the cells.
type Row[T any] struct {
	Item  T
	Cells []string
}

// Formatter renders an item into display cells.
type Formatter[T any] func(item T) []string

// View renders a full row set. It is called after every successful load.
type View[T any] interface {
	Render(name string, rows []Row[T], page Page[T])
}

// Config wires a Store.
type Config[T any] struct {
	// Name labels the list in logs and views, e.g. "products".
	Name    string
	Query   Query
	Fetcher Fetcher[T]
	Format  Formatter[T]
	View    View[T]
	Logger  *zap.Logger
}

// Store is the list synchronization state for one entity type. It is safe
// for concurrent use; import completion refreshes it from a channel
// goroutine.
type Store[T any] struct {
	name    string
	fetcher Fetcher[T]
	format  Formatter[T]
	view    View[T]
	logger  *zap.Logger

	mu    sync.Mutex
	query Query
	rows  []Row[T]
	page  Page[T]
	loads int
}

// NewStore constructs a Store from cfg.
func NewStore[T any](cfg Config[T]) (*Store[T], error) {
	if cfg.Fetcher == nil {
		return nil, errors.New("listsync: fetcher is required")
	}
	if cfg.Format == nil {
		return nil, errors.New("listsync: formatter is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	q := cfg.Query.Clone()
	q.Page = max(q.Page, 1)
	return &Store[T]{
		name:    cfg.Name,
		fetcher: cfg.Fetcher,
		format:  cfg.Format,
		view:    cfg.View,
		logger:  logger.With(zap.String("list", cfg.Name)),
		query:   q,
	}, nil
}

// Name returns the list label.
func (s *Store[T]) Name() string {
	return s.name
}

// Load makes q the current query and replaces the row set with the fetched
// page. On error the previous rows are kept.
func (s *Store[T]) Load(ctx context.Context, q Query) (Page[T], error) {
	q = q.Clone()
	q.Page = max(q.Page, 1)
	s.mu.Lock()
	s.query = q
	s.mu.Unlock()

	page, err := s.fetcher.Fetch(ctx, q)
	if err != nil {
		s.logger.Warn("list load failed", zap.Int("page", q.Page), zap.Error(err))
		return Page[T]{}, fmt.Errorf("load %s: %w", s.name, err)
	}
	rows := make([]Row[T], 0, len(page.Items))
	for _, item := range page.Items {
		rows = append(rows, Row[T]{Item: item, Cells: s.format(item)})
	}

	s.mu.Lock()
	s.rows = rows
	s.page = page
	s.loads++
	s.mu.Unlock()

	s.logger.Debug("list loaded", zap.Int("page", page.Page), zap.Int("rows", len(rows)), zap.Int("total", page.Total))
	if s.view != nil {
		s.view.Render(s.name, append([]Row[T](nil), rows...), page)
	}
	return page, nil
}

// Refresh reloads the current query.
func (s *Store[T]) Refresh(ctx context.Context) error {
	_, err := s.Load(ctx, s.Query())
	return err
}

// ApplyFilters replaces all filters, resets to page 1 and reloads.
func (s *Store[T]) ApplyFilters(ctx context.Context, filters map[string]string) error {
	_, err := s.Load(ctx, s.Query().WithFilters(filters))
	return err
}

// SetFilter changes one filter, resets to page 1 and reloads.
func (s *Store[T]) SetFilter(ctx context.Context, name, value string) error {
	_, err := s.Load(ctx, s.Query().WithFilter(name, value))
	return err
}

// NextPage advances one page and reloads.
func (s *Store[T]) NextPage(ctx context.Context) error {
	q := s.Query()
	_, err := s.Load(ctx, q.WithPage(q.Page+1))
	return err
}

// PrevPage goes back one page and reloads. On page 1 it does nothing and
// reports false.
func (s *Store[T]) PrevPage(ctx context.Context) (bool, error) {
	q := s.Query()
	if q.Page <= 1 {
		return false, nil
	}
	_, err := s.Load(ctx, q.WithPage(q.Page-1))
	return true, err
}

// GoToPage jumps to page p (clamped to 1) and reloads.
func (s *Store[T]) GoToPage(ctx context.Context, p int) error {
	_, err := s.Load(ctx, s.Query().WithPage(p))
	return err
}

// Query returns a copy of the current query.
func (s *Store[T]) Query() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query.Clone()
}

// Rows returns a copy of the current row set.
func (s *Store[T]) Rows() []Row[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Row[T](nil), s.rows...)
}

// Page returns the last fetched page.
func (s *Store[T]) Page() Page[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Loads counts successful loads.
func (s *Store[T]) Loads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}

// Find returns the first row whose item satisfies match.
func (s *Store[T]) Find(match func(T) bool) (Row[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if match(row.Item) {
			return row, true
		}
	}
	return Row[T]{}, false
}

// Locate pages through the unfiltered list until an item satisfies match.
// It leaves the current query, rows and view untouched.
func (s *Store[T]) Locate(ctx context.Context, match func(T) bool) (Row[T], error) {
	q := NewQuery(s.Query().PageSize)
	for {
		page, err := s.fetcher.Fetch(ctx, q)
		if err != nil {
			return Row[T]{}, fmt.Errorf("locate in %s: %w", s.name, err)
		}
		for _, item := range page.Items {
			if match(item) {
				return Row[T]{Item: item, Cells: s.format(item)}, nil
			}
		}
		if len(page.Items) == 0 || !page.HasNext() {
			return Row[T]{}, ErrRowNotFound
		}
		q = q.WithPage(q.Page + 1)
	}
}
