// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kg

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/pdiddy/biokg-search/pkg/types"
)

// ErrEmptyQuery is returned by Search for a blank query.
var ErrEmptyQuery = errors.New("query is empty")

const (
	// candidatesPerRanking bounds each ranking fed into fusion.
	candidatesPerRanking = 50

	// rrfK is the reciprocal rank fusion constant.
	rrfK = 60

	// titleWeight boosts title matches in the title-weighted ranking.
	titleWeight = 10.0

	maxListedAuthors = 3
)

// Search ranks documents against query and returns up to topK results. Two
// BM25 rankings (body-weighted and title-weighted) are combined with
// reciprocal rank fusion. Matches on a sub-entity are reported under their
// parent paper, so the same paper may appear more than once.
func (s *Store) Search(ctx context.Context, query string, topK int) ([]types.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if topK <= 0 {
		topK = types.DefaultTopK
	}

	match := ftsQuery(query)
	if match == "" {
		return []types.SearchResult{}, nil
	}

	body, err := s.rank(ctx, match, `bm25(docs_fts)`)
	if err != nil {
		return nil, err
	}
	titled, err := s.rank(ctx, match, fmt.Sprintf(`bm25(docs_fts, %.1f, 1.0)`, titleWeight))
	if err != nil {
		return nil, err
	}

	fused := reciprocalRankFusion([][]hit{body, titled}, rrfK)
	if len(fused) > topK {
		fused = fused[:topK]
	}

	results := make([]types.SearchResult, 0, len(fused))
	for _, h := range fused {
		r, err := s.paperMetadata(ctx, h.parent)
		if err != nil {
			return nil, err
		}
		r.Score = h.score
		results = append(results, r)
	}
	return results, nil
}

type hit struct {
	subject string
	parent  string
	score   float64
}

func (s *Store) rank(ctx context.Context, match, orderBy string) ([]hit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.subject, d.parent
		FROM docs_fts
		JOIN docs d ON d.rowid = docs_fts.rowid
		WHERE docs_fts MATCH ?
		ORDER BY `+orderBy+`
		LIMIT ?`, match, candidatesPerRanking)
	if err != nil {
		return nil, fmt.Errorf("ranking documents: %w", err)
	}
	defer rows.Close()

	var hits []hit
	for rows.Next() {
		var h hit
		if err := rows.Scan(&h.subject, &h.parent); err != nil {
			return nil, fmt.Errorf("scanning ranked document: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// reciprocalRankFusion scores each subject by the sum of 1/(k+rank+1) over
// the rankings it appears in, highest first. Ties break on subject.
func reciprocalRankFusion(rankings [][]hit, k int) []hit {
	scores := make(map[string]*hit)
	for _, ranking := range rankings {
		for rank, h := range ranking {
			acc, ok := scores[h.subject]
			if !ok {
				acc = &hit{subject: h.subject, parent: h.parent}
				scores[h.subject] = acc
			}
			acc.score += 1.0 / float64(k+rank+1)
		}
	}

	fused := make([]hit, 0, len(scores))
	for _, h := range scores {
		fused = append(fused, *h)
	}
	sort.Slice(fused, func(i, j int) bool {
		if fused[i].score != fused[j].score {
			return fused[i].score > fused[j].score
		}
		return fused[i].subject < fused[j].subject
	})
	return fused
}

// paperMetadata builds the display record for a paper from its triples.
func (s *Store) paperMetadata(ctx context.Context, pmcID string) (types.SearchResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT predicate, object FROM triples
		WHERE subject = ? AND predicate IN (?, ?, ?, ?)
		ORDER BY rowid`,
		pmcID, PredTitle, PredJournal, PredYear, PredAuthor)
	if err != nil {
		return types.SearchResult{}, fmt.Errorf("loading metadata for %s: %w", pmcID, err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	var authors []string
	for rows.Next() {
		var pred, obj string
		if err := rows.Scan(&pred, &obj); err != nil {
			return types.SearchResult{}, fmt.Errorf("scanning metadata: %w", err)
		}
		if pred == PredAuthor {
			authors = append(authors, obj)
			continue
		}
		meta[pred] = obj
	}
	if err := rows.Err(); err != nil {
		return types.SearchResult{}, err
	}

	return types.SearchResult{
		Identifier: pmcID,
		Title:      orDefault(meta[PredTitle], types.UnknownTitle),
		Journal:    orDefault(meta[PredJournal], types.UnknownJournal),
		Year:       types.Year(orDefault(meta[PredYear], types.UnknownYear)),
		Authors:    orDefault(FormatAuthors(authors), types.UnknownAuthors),
	}, nil
}

// FormatAuthors joins the first three authors and appends "et al." when
// more were listed.
func FormatAuthors(authors []string) string {
	if len(authors) <= maxListedAuthors {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:maxListedAuthors], ", ") + " et al."
}

// ftsQuery turns free text into an FTS5 expression matching any of its
// words. Punctuation never reaches the FTS5 parser.
func ftsQuery(text string) string {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := make([]string, 0, len(words))
	for _, w := range words {
		terms = append(terms, `"`+w+`"`)
	}
	return strings.Join(terms, " OR ")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
