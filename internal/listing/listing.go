// Copyright (c) 2026 Parsight. All rights reserved.

/*
Package listing implements the generic paginated, filtered, searchable
collection controller shared by the records view and the admin user view.

# Fetch Discipline

Exactly one server fetch is issued per change to page, page size, or
filters; changing the page size or any filter resets the page to 1. The
free-text search term never fetches: it narrows the already-held page
client-side, and the pagination metadata keeps reflecting the server total.

# Staleness

Every server-relevant query mutation increments a version counter. A fetch
completion carries the version it was issued under and is applied only while
that version is still current, so a slow response can never overwrite the
state of a newer query. In-flight requests are not aborted; their results
are simply ignored when superseded.
*/
package listing

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"parsight/internal/platform/apperr"
	"parsight/pkg/pagination"
	"parsight/pkg/textmatch"
)

// Row is the constraint listing rows satisfy: a flat view of their field
// values, used for client-side free-text matching.
type Row interface {
	Fields() []string
}

// Query is the full fetch parameterization owned by the view.
type Query struct {
	Page     int
	PageSize int
	Filters  map[string]string

	// Search is client-side only and never part of a fetch.
	Search string
}

// clone deep-copies the query so snapshots cannot alias live filter maps.
func (q Query) clone() Query {
	out := q
	out.Filters = make(map[string]string, len(q.Filters))
	for k, v := range q.Filters {
		out.Filters[k] = v
	}
	return out
}

// Result is one fetched page plus the server-side total. It is replaced
// wholesale on every fetch, never merged.
type Result[T Row] struct {
	Items []T
	Total int
}

// Fetcher obtains one page for a query from the backend.
type Fetcher[T Row] func(ctx context.Context, q Query) (Result[T], error)

// Controller drives a listing view.
type Controller[T Row] struct {
	mu    sync.Mutex
	fetch Fetcher[T]
	log   *slog.Logger

	query   Query
	version uint64

	items   []T
	total   int
	lastErr error
}

// Option customizes controller construction.
type Option func(*Query)

// WithPageSize sets the initial page size.
func WithPageSize(size int) Option {
	return func(q *Query) {
		if pagination.ValidSize(size) {
			q.PageSize = size
		}
	}
}

// WithPage sets the initial page.
func WithPage(page int) Option {
	return func(q *Query) {
		if page >= 1 {
			q.Page = page
		}
	}
}

// WithFilter sets an initial filter field.
func WithFilter(field, value string) Option {
	return func(q *Query) {
		if value != "" {
			q.Filters[field] = value
		}
	}
}

// WithSearch sets the initial client-side search term.
func WithSearch(term string) Option {
	return func(q *Query) {
		q.Search = term
	}
}

// NewController creates a controller positioned on page 1. No fetch is
// issued until the first Load or query mutation.
func NewController[T Row](fetch Fetcher[T], log *slog.Logger, opts ...Option) *Controller[T] {
	query := Query{
		Page:     pagination.DefaultPage,
		PageSize: pagination.DefaultPageSize,
		Filters:  map[string]string{},
	}
	for _, opt := range opts {
		opt(&query)
	}

	return &Controller[T]{
		fetch: fetch,
		log:   log,
		query: query,
	}
}

// # Query Mutations

// Load fetches the current query. Used for the initial population and for
// explicit refreshes after mutations elsewhere.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	q, v := c.query.clone(), c.version
	c.mu.Unlock()
	return c.load(ctx, q, v)
}

// SetPage moves to the given page and fetches it. Out-of-range values clamp
// to 1; an unchanged page issues no fetch.
func (c *Controller[T]) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	if page == c.query.Page {
		c.mu.Unlock()
		return nil
	}
	c.query.Page = page
	c.version++
	q, v := c.query.clone(), c.version
	c.mu.Unlock()

	return c.load(ctx, q, v)
}

// SetPageSize switches the page size, resets to page 1, and fetches.
func (c *Controller[T]) SetPageSize(ctx context.Context, size int) error {
	if !pagination.ValidSize(size) {
		return apperr.ValidationError("Unsupported page size")
	}

	c.mu.Lock()
	if size == c.query.PageSize {
		c.mu.Unlock()
		return nil
	}
	c.query.PageSize = size
	c.query.Page = 1
	c.version++
	q, v := c.query.clone(), c.version
	c.mu.Unlock()

	return c.load(ctx, q, v)
}

// SetFilter sets or clears (empty value) a server-side filter field, resets
// to page 1, and fetches.
func (c *Controller[T]) SetFilter(ctx context.Context, field, value string) error {
	c.mu.Lock()
	if c.query.Filters[field] == value {
		c.mu.Unlock()
		return nil
	}
	if value == "" {
		delete(c.query.Filters, field)
	} else {
		c.query.Filters[field] = value
	}
	c.query.Page = 1
	c.version++
	q, v := c.query.clone(), c.version
	c.mu.Unlock()

	return c.load(ctx, q, v)
}

// SetSearch updates the client-side search term. It never fetches and never
// changes the server total.
func (c *Controller[T]) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query.Search = term
}

// # Fetch Completion

// load runs one fetch and applies its outcome only if the issuing version
// is still current.
func (c *Controller[T]) load(ctx context.Context, q Query, v uint64) error {
	res, err := c.fetch(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	if v != c.version {
		c.log.Debug("stale_fetch_discarded",
			slog.Uint64("issued_version", v),
			slog.Uint64("current_version", c.version),
		)
		return nil
	}

	if err != nil {
		// No stale rows may survive a failed fetch; they could be
		// mistaken for current results.
		c.items = nil
		c.total = 0
		c.lastErr = err
		return err
	}

	c.items = res.Items
	c.total = res.Total
	c.lastErr = nil
	return nil
}

// # Derived State

// Query returns a snapshot of the current query.
func (c *Controller[T]) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query.clone()
}

// Items returns the fetched page as-is, unnarrowed by search.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items
}

// Total returns the server-side total row count.
func (c *Controller[T]) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Err returns the error state of the last applied fetch, or nil.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Meta returns pagination metadata reflecting the server total, never the
// searched subset.
func (c *Controller[T]) Meta() pagination.Meta {
	c.mu.Lock()
	defer c.mu.Unlock()
	return pagination.NewMeta(c.query.Page, c.query.PageSize, c.total)
}

// Visible returns the held page narrowed by the search term. A row matches
// when the case-folded concatenation of its field values contains the term.
func (c *Controller[T]) Visible() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.query.Search == "" {
		return c.items
	}

	var visible []T
	for _, item := range c.items {
		if textmatch.Contains(strings.Join(item.Fields(), " "), c.query.Search) {
			visible = append(visible, item)
		}
	}
	return visible
}
