// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ui

import (
	"net/url"
	"strings"

	"github.com/pdiddy/biokg-search/pkg/types"
)

// DefaultLinkTemplate points result cards at the PMC article viewer.
const DefaultLinkTemplate = "https://www.ncbi.nlm.nih.gov/pmc/articles/{id}/"

// Card is one rendered search result.
type Card struct {
	Identifier string
	Title      string
	Authors    string
	Year       string
	Journal    string
	Link       string
}

// View is what the results section renders. Each Show flag is evaluated
// independently, so more than one block may be visible at once.
type View struct {
	Query       string
	ShowLoading bool
	ShowSummary bool
	Summary     string
	Cards       []Card
	ShowEmpty   bool
}

// NewView builds the view for the given inputs. It does not deduplicate;
// callers pass results through Dedupe first.
func NewView(results []types.SearchResult, summary string, loading, searched bool, linkTemplate string) View {
	if linkTemplate == "" {
		linkTemplate = DefaultLinkTemplate
	}
	cards := make([]Card, 0, len(results))
	for _, r := range results {
		cards = append(cards, newCard(r, linkTemplate))
	}
	return View{
		ShowLoading: loading,
		ShowSummary: summary != "",
		Summary:     summary,
		Cards:       cards,
		ShowEmpty:   !loading && len(results) == 0 && searched,
	}
}

func newCard(r types.SearchResult, linkTemplate string) Card {
	authors := r.Authors
	if authors == "" {
		authors = types.UnknownAuthors
	}
	return Card{
		Identifier: r.Identifier,
		Title:      r.Title,
		Authors:    authors,
		Year:       r.Year.String(),
		Journal:    r.Journal,
		Link:       ArticleLink(linkTemplate, r.Identifier),
	}
}

// ArticleLink substitutes the escaped identifier into template.
func ArticleLink(template, id string) string {
	return strings.ReplaceAll(template, "{id}", url.PathEscape(id))
}
