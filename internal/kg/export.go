// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kg

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// ExportEntry is one paper and all of its facts.
type ExportEntry struct {
	PMCID   string   `json:"pmc_id" yaml:"pmc_id"`
	Title   string   `json:"title" yaml:"title"`
	Journal string   `json:"journal" yaml:"journal"`
	Year    string   `json:"year" yaml:"year"`
	Authors string   `json:"authors" yaml:"authors"`
	Triples []Triple `json:"triples" yaml:"triples"`
}

// Export returns every paper in the store ordered by id, each with the
// triples of the paper and its sub-entities.
func (s *Store) Export(ctx context.Context) ([]ExportEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT parent FROM docs ORDER BY parent`)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning paper id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entries := make([]ExportEntry, 0, len(ids))
	for _, id := range ids {
		meta, err := s.paperMetadata(ctx, id)
		if err != nil {
			return nil, err
		}
		triples, err := s.paperTriples(ctx, id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ExportEntry{
			PMCID:   id,
			Title:   meta.Title,
			Journal: meta.Journal,
			Year:    meta.Year.String(),
			Authors: meta.Authors,
			Triples: triples,
		})
	}
	return entries, nil
}

func (s *Store) paperTriples(ctx context.Context, pmcID string) ([]Triple, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT subject FROM docs WHERE parent = ? ORDER BY rowid`, pmcID)
	if err != nil {
		return nil, fmt.Errorf("listing subjects for %s: %w", pmcID, err)
	}
	var subjects []string
	for rows.Next() {
		var subject string
		if err := rows.Scan(&subject); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning subject: %w", err)
		}
		subjects = append(subjects, subject)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var out []Triple
	for _, subject := range subjects {
		ts, err := s.Triples(ctx, subject)
		if err != nil {
			return nil, err
		}
		out = append(out, ts...)
	}
	return out, nil
}

// ExportYAML writes Export's entries to path as YAML.
func (s *Store) ExportYAML(ctx context.Context, path string) error {
	entries, err := s.Export(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes Export's entries to path as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, path string) error {
	entries, err := s.Export(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
