// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/biokg-search/pkg/types"
)

const extractionSuffix = "_kg.json"

// PopulateSummary holds counts from a populate run.
type PopulateSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of files processed.
func (s PopulateSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Populate loads every PMC*_kg.json file in dir into the store. Files whose
// modification time matches the last run are skipped; changed files replace
// the triples of their paper. Progress lines are written to w.
func (s *Store) Populate(ctx context.Context, dir string, w io.Writer) (PopulateSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return PopulateSummary{}, fmt.Errorf("reading extraction directory %s: %w", dir, err)
	}

	var files []os.DirEntry
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "PMC") || !strings.HasSuffix(e.Name(), extractionSuffix) {
			continue
		}
		files = append(files, e)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })
	fmt.Fprintf(w, "processing %d JSON files\n", len(files))

	var summary PopulateSummary
	for _, entry := range files {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		pmcID := strings.TrimSuffix(entry.Name(), extractionSuffix)

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", pmcID, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE pmc_id = ?`, pmcID,
		).Scan(&storedModTime)
		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", pmcID)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", pmcID, err)
			summary.Failed++
			continue
		}

		var ex types.Extraction
		if err := json.Unmarshal(data, &ex); err != nil {
			fmt.Fprintf(w, "failed  %s: parse error: %v\n", pmcID, err)
			summary.Failed++
			continue
		}

		n, err := s.AddExtraction(ctx, pmcID, &ex, modTime)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", pmcID, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d triples)\n", pmcID, n)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s (%d triples)\n", pmcID, n)
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)
	return summary, nil
}

// AddExtraction replaces the triples for pmcID with those derived from ex
// and rebuilds its search documents. modTime is recorded for incremental
// runs; pass "" when the extraction did not come from a file. It returns
// the number of triples written.
func (s *Store) AddExtraction(ctx context.Context, pmcID string, ex *types.Extraction, modTime string) (int, error) {
	triples := ExtractionTriples(pmcID, ex)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM triples WHERE subject = ? OR subject IN (SELECT subject FROM docs WHERE parent = ?)`,
		pmcID, pmcID); err != nil {
		return 0, fmt.Errorf("deleting old triples: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM docs WHERE parent = ?`, pmcID); err != nil {
		return 0, fmt.Errorf("deleting old documents: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO triples (subject, predicate, object) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range triples {
		if _, err := stmt.ExecContext(ctx, t.Subject, t.Predicate, t.Object); err != nil {
			return 0, fmt.Errorf("inserting triple %s %s: %w", t.Subject, t.Predicate, err)
		}
	}

	title := ""
	if ex.Publication != nil {
		title = ex.Publication.Title
	}
	for _, d := range buildDocuments(pmcID, title, triples) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO docs (subject, parent, title, body) VALUES (?, ?, ?, ?)`,
			d.subject, pmcID, d.title, d.body); err != nil {
			return 0, fmt.Errorf("inserting document %s: %w", d.subject, err)
		}
	}

	if modTime != "" {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO indexing_status (pmc_id, file_mod_time) VALUES (?, ?)
			 ON CONFLICT(pmc_id) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
			pmcID, modTime); err != nil {
			return 0, fmt.Errorf("updating indexing status: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing %s: %w", pmcID, err)
	}
	return len(triples), nil
}

// ExtractionTriples flattens ex into triples. Treatments and results become
// sub-entities named <pmcID>_treatment_<i> and <pmcID>_result_<i>.
func ExtractionTriples(pmcID string, ex *types.Extraction) []Triple {
	var out []Triple
	add := func(subject, predicate, object string) {
		out = append(out, Triple{Subject: subject, Predicate: predicate, Object: object})
	}

	if p := ex.Publication; p != nil {
		add(pmcID, PredTitle, p.Title)
		add(pmcID, PredJournal, p.Journal)
		add(pmcID, PredYear, p.Year.String())
	}
	for _, a := range ex.Authors {
		add(pmcID, PredAuthor, a)
	}
	if sub := ex.Subjects; sub != nil {
		for _, v := range sub.Species {
			add(pmcID, PredSpecies, v)
		}
		for _, v := range sub.Tissues {
			add(pmcID, PredTissue, v)
		}
	}
	if m := ex.Methods; m != nil {
		for _, v := range m.Platforms {
			add(pmcID, PredPlatform, v)
		}
		for _, v := range m.Assays {
			add(pmcID, PredAssay, v)
		}
	}
	for i, tr := range ex.Treatments {
		id := fmt.Sprintf("%s_treatment_%d", pmcID, i)
		add(pmcID, PredTreatment, id)
		add(id, PredAgent, tr.Agent)
		add(id, PredDose, tr.Dose)
	}
	for i, r := range ex.Results {
		id := fmt.Sprintf("%s_result_%d", pmcID, i)
		add(pmcID, PredResult, id)
		add(id, PredTarget, r.Target)
		add(id, PredEffect, r.Effect)
	}
	return out
}

type document struct {
	subject string
	title   string
	body    string
}

// buildDocuments groups triples by subject into searchable text. Objects
// that name a sub-entity are links, not text, and are left out of the body.
func buildDocuments(pmcID, title string, triples []Triple) []document {
	var (
		order []string
		parts = make(map[string][]string)
	)
	for _, t := range triples {
		if _, ok := parts[t.Subject]; !ok {
			order = append(order, t.Subject)
			parts[t.Subject] = nil
		}
		if t.Predicate == PredTreatment || t.Predicate == PredResult {
			continue
		}
		if strings.TrimSpace(t.Object) == "" {
			continue
		}
		parts[t.Subject] = append(parts[t.Subject], t.Object)
	}

	docs := make([]document, 0, len(order))
	for _, subject := range order {
		d := document{subject: subject, body: strings.Join(parts[subject], " ")}
		if subject == pmcID {
			d.title = title
		}
		docs = append(docs, d)
	}
	return docs
}
