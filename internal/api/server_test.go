// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/biokg-search/pkg/types"
)

type fakeEngine struct {
	results []types.SearchResult
	err     error

	gotQuery string
	gotTopK  int
}

func (f *fakeEngine) Search(_ context.Context, query string, topK int) ([]types.SearchResult, error) {
	f.gotQuery, f.gotTopK = query, topK
	return f.results, f.err
}

type fakeSummarizer struct{ text string }

func (f fakeSummarizer) Summarize(_ context.Context, _ string, _ []types.SearchResult) string {
	return f.text
}

func newTestServer(e Engine, s Summarizer) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(e, s, types.APIConfig{MaxTopK: 50}, logger).Handler()
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSearchReturnsResultsAndSummary(t *testing.T) {
	e := &fakeEngine{results: []types.SearchResult{
		{Identifier: "PMC1", Title: "A", Year: "2020", Journal: "J1"},
		{Identifier: "PMC1", Title: "A", Year: "2020", Journal: "J1"},
	}}
	rec := post(t, newTestServer(e, fakeSummarizer{text: "S"}), `{"query":" cancer treatment ","top_k":5}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "cancer treatment", e.gotQuery)
	assert.Equal(t, 5, e.gotTopK)

	var resp types.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Results, 2, "the API does not deduplicate")
	assert.Equal(t, "S", resp.Summary)
}

func TestSearchDefaultTopK(t *testing.T) {
	e := &fakeEngine{}
	rec := post(t, newTestServer(e, nil), `{"query":"bone"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.DefaultTopK, e.gotTopK)
	assert.JSONEq(t, `{"results":[],"summary":""}`, rec.Body.String())
}

func TestSearchBadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"missing query", `{"top_k":5}`, "Query is required"},
		{"blank query", `{"query":"   "}`, "Query is required"},
		{"invalid json", `{"query":`, "Invalid JSON request"},
		{"top_k too large", `{"query":"q","top_k":500}`, "top_k"},
		{"negative top_k", `{"query":"q","top_k":-1}`, "top_k"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &fakeEngine{}
			rec := post(t, newTestServer(e, nil), tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var er types.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &er))
			assert.Contains(t, er.Error, tt.wantErr)
			assert.Empty(t, e.gotQuery, "engine must not be called")
		})
	}
}

func TestSearchEngineError(t *testing.T) {
	e := &fakeEngine{err: errors.New("database locked")}
	rec := post(t, newTestServer(e, nil), `{"query":"q"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"database locked"}`, rec.Body.String())
}

func TestSearchMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	rec := httptest.NewRecorder()
	newTestServer(&fakeEngine{}, nil).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/search", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	// Browsers send the requested header names lowercased.
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	rec := httptest.NewRecorder()

	newTestServer(&fakeEngine{}, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "content-type", rec.Header().Get("Access-Control-Allow-Headers"))
}

type panicEngine struct{}

func (panicEngine) Search(context.Context, string, int) ([]types.SearchResult, error) {
	panic("boom")
}

func TestRecovery(t *testing.T) {
	rec := post(t, newTestServer(panicEngine{}, nil), `{"query":"q"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
