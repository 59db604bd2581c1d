// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ui

import "github.com/pdiddy/biokg-search/pkg/types"

// Dedupe returns results with later entries that repeat an identifier
// removed. The first occurrence wins and relative order is preserved.
func Dedupe(results []types.SearchResult) []types.SearchResult {
	seen := make(map[string]struct{}, len(results))
	deduped := make([]types.SearchResult, 0, len(results))
	for _, r := range results {
		if _, ok := seen[r.Identifier]; ok {
			continue
		}
		seen[r.Identifier] = struct{}{}
		deduped = append(deduped, r)
	}
	return deduped
}
