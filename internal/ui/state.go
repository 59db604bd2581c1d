// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ui holds the search page's state, the controller that drives a
// search through the API client, and the view model the page renders.
package ui

import "github.com/pdiddy/biokg-search/pkg/types"

// State is the page state. It changes only through Submit, Succeed, Fail,
// and Reset.
type State struct {
	// Query is the most recently submitted query.
	Query string

	Results []types.SearchResult
	Summary string

	// Loading is true while the latest submission is in flight.
	Loading bool

	// Searched latches true on the first submission and is never cleared.
	Searched bool

	// Seq is the token of the latest submission. Responses carrying an older
	// token are stale.
	Seq uint64
}

// Submit records a new submission and returns its token.
func (s *State) Submit(query string) uint64 {
	s.Seq++
	s.Query = query
	s.Loading = true
	s.Searched = true
	return s.Seq
}

// Succeed applies resp if token belongs to the latest submission. It
// reports whether the response was applied.
func (s *State) Succeed(token uint64, resp types.SearchResponse) bool {
	if token != s.Seq {
		return false
	}
	resp = resp.Normalize()
	s.Results = resp.Results
	s.Summary = resp.Summary
	s.Loading = false
	return true
}

// Fail clears results and summary if token belongs to the latest
// submission. It reports whether the failure was applied.
func (s *State) Fail(token uint64) bool {
	if token != s.Seq {
		return false
	}
	s.Results = []types.SearchResult{}
	s.Summary = ""
	s.Loading = false
	return true
}

// Reset clears results, summary, and the in-flight marker. Searched stays
// latched, and the sequence advances so any in-flight response is dropped.
func (s *State) Reset() {
	s.Seq++
	s.Query = ""
	s.Results = []types.SearchResult{}
	s.Summary = ""
	s.Loading = false
}

// clone returns a copy whose Results slice does not alias s.
func (s State) clone() State {
	if s.Results != nil {
		s.Results = append([]types.SearchResult(nil), s.Results...)
	}
	return s
}
