// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/biokg-search/pkg/types"
)

// --- fake searchers ---

type fakeSearcher struct {
	resp types.SearchResponse
	err  error

	mu      sync.Mutex
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query string, _ int) (types.SearchResponse, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	return f.resp, f.err
}

// gatedSearcher blocks each query until its gate is released.
type gatedSearcher struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	started chan string
	resps   map[string]types.SearchResponse
}

func newGatedSearcher(resps map[string]types.SearchResponse) *gatedSearcher {
	g := &gatedSearcher{
		gates:   make(map[string]chan struct{}),
		started: make(chan string, len(resps)),
		resps:   resps,
	}
	for q := range resps {
		g.gates[q] = make(chan struct{})
	}
	return g
}

func (g *gatedSearcher) Search(ctx context.Context, query string, _ int) (types.SearchResponse, error) {
	g.mu.Lock()
	gate := g.gates[query]
	g.mu.Unlock()
	g.started <- query
	select {
	case <-gate:
	case <-ctx.Done():
		return types.SearchResponse{}, ctx.Err()
	}
	return g.resps[query], nil
}

func (g *gatedSearcher) release(query string) { close(g.gates[query]) }

const (
	timeout = 2 * time.Second
	tick    = time.Millisecond
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Dedupe ---

func TestDedupeKeepsFirstOccurrence(t *testing.T) {
	in := []types.SearchResult{
		{Identifier: "PMC1", Title: "A", Year: "2020", Journal: "J1"},
		{Identifier: "PMC2", Title: "B"},
		{Identifier: "PMC1", Title: "A-dup", Year: "2021", Journal: "J2"},
		{Identifier: "PMC3", Title: "C"},
		{Identifier: "PMC2", Title: "B-dup"},
	}

	got := Dedupe(in)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"PMC1", "PMC2", "PMC3"}, ids(got))
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, types.Year("2020"), got[0].Year)
	assert.Equal(t, "J1", got[0].Journal)
	assert.Equal(t, "B", got[1].Title)
}

func TestDedupeNoDuplicates(t *testing.T) {
	in := []types.SearchResult{{Identifier: "PMC1"}, {Identifier: "PMC2"}}
	assert.Equal(t, in, Dedupe(in))
}

func TestDedupeEmpty(t *testing.T) {
	assert.Empty(t, Dedupe(nil))
}

func ids(rs []types.SearchResult) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Identifier
	}
	return out
}

// --- State ---

func TestStateStaleTokenIsDiscarded(t *testing.T) {
	var s State
	first := s.Submit("a")
	second := s.Submit("b")

	assert.False(t, s.Succeed(first, types.SearchResponse{Summary: "stale"}))
	assert.True(t, s.Loading, "loading stays set while the latest request is in flight")
	assert.Empty(t, s.Summary)

	assert.True(t, s.Succeed(second, types.SearchResponse{Summary: "fresh"}))
	assert.False(t, s.Loading)
	assert.Equal(t, "fresh", s.Summary)

	assert.False(t, s.Fail(first))
	assert.Equal(t, "fresh", s.Summary)
}

func TestStateResetKeepsSearchedLatch(t *testing.T) {
	var s State
	tok := s.Submit("a")
	s.Succeed(tok, types.SearchResponse{Results: []types.SearchResult{{Identifier: "PMC1"}}, Summary: "S"})

	s.Reset()
	assert.True(t, s.Searched)
	assert.Empty(t, s.Results)
	assert.Empty(t, s.Summary)
	assert.False(t, s.Loading)
	assert.False(t, s.Succeed(tok, types.SearchResponse{Summary: "late"}))
}

// --- View ---

func TestViewConditions(t *testing.T) {
	one := []types.SearchResult{{Identifier: "PMC1", Title: "A"}}
	tests := []struct {
		name                            string
		results                         []types.SearchResult
		summary                         string
		loading, searched               bool
		wantLoading, wantSum, wantEmpty bool
		wantCards                       int
	}{
		{"initial", nil, "", false, false, false, false, false, 0},
		{"loading first search", nil, "", true, true, true, false, false, 0},
		{"loading with stale results", one, "S", true, true, true, true, false, 1},
		{"results and summary", one, "S", false, true, false, true, false, 1},
		{"empty after search", nil, "", false, true, false, false, true, 0},
		{"summary without results", nil, "S", false, true, false, true, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewView(tt.results, tt.summary, tt.loading, tt.searched, "")
			assert.Equal(t, tt.wantLoading, v.ShowLoading)
			assert.Equal(t, tt.wantSum, v.ShowSummary)
			assert.Equal(t, tt.wantEmpty, v.ShowEmpty)
			assert.Len(t, v.Cards, tt.wantCards)
		})
	}
}

func TestViewCardFields(t *testing.T) {
	v := NewView([]types.SearchResult{
		{Identifier: "PMC1", Title: "A", Year: "2020", Journal: "J1"},
		{Identifier: "PMC2", Title: "B", Authors: "Smith, Jones", Year: "2019", Journal: "J2"},
	}, "", false, true, "https://example.org/pmc/{id}")

	require.Len(t, v.Cards, 2)
	assert.Equal(t, types.UnknownAuthors, v.Cards[0].Authors)
	assert.Equal(t, "https://example.org/pmc/PMC1", v.Cards[0].Link)
	assert.Equal(t, "Smith, Jones", v.Cards[1].Authors)
	assert.Equal(t, "2019", v.Cards[1].Year)
}

func TestArticleLinkDefault(t *testing.T) {
	assert.Equal(t, "https://www.ncbi.nlm.nih.gov/pmc/articles/PMC3630201/",
		ArticleLink(DefaultLinkTemplate, "PMC3630201"))
}

// --- Controller ---

func TestControllerDuplicateScenario(t *testing.T) {
	s := &fakeSearcher{resp: types.SearchResponse{
		Results: []types.SearchResult{
			{Identifier: "PMC1", Title: "A", Year: "2020", Journal: "J1"},
			{Identifier: "PMC1", Title: "A-dup", Year: "2021", Journal: "J2"},
		},
		Summary: "S",
	}}
	c := NewController(s, WithLogger(quietLogger()))

	c.Search(context.Background(), "cancer treatment")

	v := c.View()
	require.Len(t, v.Cards, 1)
	assert.Equal(t, "PMC1", v.Cards[0].Identifier)
	assert.Equal(t, "A", v.Cards[0].Title)
	assert.Equal(t, "2020", v.Cards[0].Year)
	assert.Equal(t, "J1", v.Cards[0].Journal)
	assert.True(t, v.ShowSummary)
	assert.Equal(t, "S", v.Summary)
	assert.False(t, v.ShowEmpty)
	assert.False(t, v.ShowLoading)
	assert.Equal(t, []string{"cancer treatment"}, s.queries)
}

func TestControllerEmptyScenario(t *testing.T) {
	c := NewController(&fakeSearcher{resp: types.SearchResponse{Results: []types.SearchResult{}}},
		WithLogger(quietLogger()))

	c.Search(context.Background(), "xyz-nonsense")

	v := c.View()
	assert.True(t, v.ShowEmpty)
	assert.False(t, v.ShowSummary)
	assert.Empty(t, v.Cards)
}

func TestControllerFailureResetsState(t *testing.T) {
	s := &fakeSearcher{resp: types.SearchResponse{
		Results: []types.SearchResult{{Identifier: "PMC9", Title: "old"}},
		Summary: "old summary",
	}}
	c := NewController(s, WithLogger(quietLogger()))
	c.Search(context.Background(), "first")
	require.Len(t, c.View().Cards, 1)

	s.err = errors.New("connection refused")
	c.Search(context.Background(), "second")

	st := c.Snapshot()
	assert.True(t, st.Searched)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Results)
	assert.Empty(t, st.Summary)

	v := c.View()
	assert.True(t, v.ShowEmpty, "failure renders the same empty message as a genuine empty result")
	assert.False(t, v.ShowSummary)
}

func TestControllerSearchedLatchOnFirstFailure(t *testing.T) {
	c := NewController(&fakeSearcher{err: errors.New("down")}, WithLogger(quietLogger()))
	assert.False(t, c.Snapshot().Searched)

	c.Search(context.Background(), "q")
	assert.True(t, c.Snapshot().Searched)
}

func TestControllerLoadingDuringFlight(t *testing.T) {
	g := newGatedSearcher(map[string]types.SearchResponse{
		"q": {Results: []types.SearchResult{{Identifier: "PMC1"}}},
	})
	c := NewController(g, WithLogger(quietLogger()))

	assert.False(t, c.Snapshot().Loading)
	c.SubmitAsync(context.Background(), "q")
	<-g.started

	v := c.View()
	assert.True(t, v.ShowLoading)
	assert.False(t, v.ShowEmpty, "empty message is hidden while loading")

	g.release("q")
	c.Wait()

	v = c.View()
	assert.False(t, v.ShowLoading)
	assert.Len(t, v.Cards, 1)
}

func TestControllerLastSubmittedWins(t *testing.T) {
	g := newGatedSearcher(map[string]types.SearchResponse{
		"slow": {Results: []types.SearchResult{{Identifier: "PMC-slow"}}, Summary: "slow"},
		"fast": {Results: []types.SearchResult{{Identifier: "PMC-fast"}}, Summary: "fast"},
	})
	c := NewController(g, WithLogger(quietLogger()))

	c.SubmitAsync(context.Background(), "slow")
	<-g.started
	c.SubmitAsync(context.Background(), "fast")
	<-g.started

	g.release("fast")
	require.Eventually(t, func() bool { return !c.Snapshot().Loading }, timeout, tick)

	g.release("slow")
	c.Wait()

	st := c.Snapshot()
	assert.Equal(t, "fast", st.Summary)
	require.Len(t, st.Results, 1)
	assert.Equal(t, "PMC-fast", st.Results[0].Identifier)
	assert.Equal(t, "fast", st.Query)
}

func TestControllerStaleCompletionKeepsLoading(t *testing.T) {
	g := newGatedSearcher(map[string]types.SearchResponse{
		"first":  {Summary: "first"},
		"second": {Summary: "second"},
	})
	c := NewController(g, WithLogger(quietLogger()))

	c.SubmitAsync(context.Background(), "first")
	<-g.started
	c.SubmitAsync(context.Background(), "second")
	<-g.started

	g.release("first")
	// Give the stale response time to land; it must not clear loading.
	assert.Never(t, func() bool { return !c.Snapshot().Loading }, 50*tick, tick)

	g.release("second")
	c.Wait()
	assert.False(t, c.Snapshot().Loading)
	assert.Equal(t, "second", c.Snapshot().Summary)
}
