// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ui

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pdiddy/biokg-search/pkg/types"
)

// Searcher runs one search against the API. *client.Client implements it.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) (types.SearchResponse, error)
}

// Controller owns a page's State and funnels every mutation through the
// State transitions.
type Controller struct {
	searcher     Searcher
	logger       *slog.Logger
	topK         int
	linkTemplate string

	mu    sync.Mutex
	state State
	wg    sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for failed searches.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithTopK sets the result count requested per search.
func WithTopK(k int) Option {
	return func(c *Controller) { c.topK = k }
}

// WithLinkTemplate sets the article link template used by View.
func WithLinkTemplate(t string) Option {
	return func(c *Controller) { c.linkTemplate = t }
}

// NewController returns a Controller in the idle, never-searched state.
func NewController(s Searcher, opts ...Option) *Controller {
	c := &Controller{
		searcher:     s,
		logger:       slog.Default(),
		linkTemplate: DefaultLinkTemplate,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search submits query and blocks until the request settles. Failures are
// logged and leave empty results; they are never returned.
func (c *Controller) Search(ctx context.Context, query string) {
	token := c.submit(query)
	c.run(ctx, token, query)
}

// SubmitAsync submits query and returns once the state shows it in flight.
// The request settles in the background; use Wait to block on it.
func (c *Controller) SubmitAsync(ctx context.Context, query string) {
	token := c.submit(query)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(ctx, token, query)
	}()
}

// Wait blocks until every request started by SubmitAsync has settled.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Reset clears the displayed results. In-flight responses are discarded.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Reset()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// View returns the view model for the current state, with duplicate
// identifiers removed.
func (c *Controller) View() View {
	s := c.Snapshot()
	v := NewView(Dedupe(s.Results), s.Summary, s.Loading, s.Searched, c.linkTemplate)
	v.Query = s.Query
	return v
}

func (c *Controller) submit(query string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Submit(query)
}

func (c *Controller) run(ctx context.Context, token uint64, query string) {
	resp, err := c.searcher.Search(ctx, query, c.topK)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.logger.Error("search failed", "query", query, "error", err)
		if !c.state.Fail(token) {
			c.logger.Debug("discarded stale search failure", "query", query, "token", token)
		}
		return
	}
	if !c.state.Succeed(token, resp) {
		c.logger.Debug("discarded stale search response", "query", query, "token", token)
	}
}
