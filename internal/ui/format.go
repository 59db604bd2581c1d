// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/biokg-search/pkg/types"
)

// FormatText writes v as plain text, showing the same blocks the page shows.
func FormatText(v View, w io.Writer) {
	if v.ShowLoading {
		fmt.Fprintln(w, "Searching...")
	}
	if v.ShowSummary {
		fmt.Fprintf(w, "Summary: %s\n\n", v.Summary)
	}
	if len(v.Cards) > 0 {
		fmt.Fprintf(w, "%-4s  %-60s  %-24s  %-12s  %-24s  %s\n",
			"Rank", "Title", "Authors", "Year", "Journal", "Link")
		fmt.Fprintln(w, strings.Repeat("-", 156))
		for i, c := range v.Cards {
			fmt.Fprintf(w, "%-4d  %-60s  %-24s  %-12s  %-24s  %s\n",
				i+1, truncate(c.Title, 60), truncate(c.Authors, 24),
				truncate(c.Year, 12), truncate(c.Journal, 24), c.Link)
		}
		fmt.Fprintf(w, "\n%d results\n", len(v.Cards))
	}
	if v.ShowEmpty {
		fmt.Fprintln(w, "No results found.")
	}
}

// FormatJSON writes resp as indented JSON.
func FormatJSON(resp types.SearchResponse, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp.Normalize())
}

// FormatYAML writes resp as YAML.
func FormatYAML(resp types.SearchResponse, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(resp.Normalize()); err != nil {
		return err
	}
	return enc.Close()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
