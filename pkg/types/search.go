// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the search API, the
// HTTP client, the search page, and the knowledge-graph store.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// DefaultTopK is the result count requested when the caller gives none.
const DefaultTopK = 10

// Placeholders used when a paper is missing metadata.
const (
	UnknownTitle   = "Unknown Title"
	UnknownJournal = "Unknown Journal"
	UnknownYear    = "Unknown Year"
	UnknownAuthors = "Unknown Authors"
)

// Year is a publication year. The API may send it as a JSON number or a
// string ("2020", "Unknown Year"); both decode to the same textual value.
type Year string

// UnmarshalJSON accepts numbers, strings, and null.
func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*y = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*y = Year(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("year: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*y = Year(strconv.FormatInt(i, 10))
		return nil
	}
	*y = Year(n.String())
	return nil
}

// String returns the year as text.
func (y Year) String() string { return string(y) }

// SearchResult is one paper returned by the search API.
type SearchResult struct {
	// Identifier is the PMC id of the paper (e.g. "PMC3630201"). It is
	// unique per document and keys both deduplication and the article link.
	Identifier string `json:"pmc_id" yaml:"pmc_id"`

	Title string `json:"title" yaml:"title"`

	// Authors is a display string ("A, B, C et al."). Empty means unknown.
	Authors string `json:"authors,omitempty" yaml:"authors,omitempty"`

	Year    Year   `json:"year" yaml:"year"`
	Journal string `json:"journal" yaml:"journal"`

	// Score is the backend relevance score. Higher is better.
	Score float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// SearchResponse is the body returned by POST /search. Both fields are
// optional on the wire.
type SearchResponse struct {
	Results []SearchResult `json:"results" yaml:"results"`
	Summary string         `json:"summary" yaml:"summary"`
}

// Normalize replaces absent fields with their empty values so callers never
// see a nil result slice.
func (r SearchResponse) Normalize() SearchResponse {
	if r.Results == nil {
		r.Results = []SearchResult{}
	}
	return r
}

// SearchRequest is the body sent to POST /search.
type SearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// ErrorResponse is the body returned by the API on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
