// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package kg stores paper extractions as subject-predicate-object triples in
// SQLite and answers ranked full-text queries over them.
package kg

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/biokg-search/pkg/types"
)

// DefaultDBPath is used when StoreConfig.DBPath is empty.
const DefaultDBPath = "data/biology_kg.db"

// Predicates written by Populate.
const (
	PredTitle     = "has_title"
	PredJournal   = "published_in"
	PredYear      = "published_year"
	PredAuthor    = "has_author"
	PredSpecies   = "studies_species"
	PredTissue    = "studies_tissue"
	PredPlatform  = "uses_platform"
	PredAssay     = "uses_assay"
	PredTreatment = "has_treatment"
	PredAgent     = "agent"
	PredDose      = "dose"
	PredResult    = "has_result"
	PredTarget    = "target"
	PredEffect    = "effect"
)

// Store manages the triple store SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the database at cfg.DBPath and creates the
// schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS triples (
			subject TEXT NOT NULL,
			predicate TEXT NOT NULL,
			object TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_triples_subject ON triples(subject)`,
		`CREATE TABLE IF NOT EXISTS docs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			subject TEXT NOT NULL UNIQUE,
			parent TEXT NOT NULL,
			title TEXT,
			body TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_docs_parent ON docs(parent)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			pmc_id TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='docs_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE docs_fts USING fts5(title, body, content=docs, content_rowid=rowid)`,
		`CREATE TRIGGER docs_ai AFTER INSERT ON docs BEGIN
			INSERT INTO docs_fts(rowid, title, body) VALUES (new.rowid, new.title, new.body);
		END`,
		`CREATE TRIGGER docs_ad AFTER DELETE ON docs BEGIN
			INSERT INTO docs_fts(docs_fts, rowid, title, body) VALUES('delete', old.rowid, old.title, old.body);
		END`,
		`CREATE TRIGGER docs_au AFTER UPDATE ON docs BEGIN
			INSERT INTO docs_fts(docs_fts, rowid, title, body) VALUES('delete', old.rowid, old.title, old.body);
			INSERT INTO docs_fts(rowid, title, body) VALUES (new.rowid, new.title, new.body);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// Triple is one subject-predicate-object fact.
type Triple struct {
	Subject   string `json:"subject" yaml:"subject"`
	Predicate string `json:"predicate" yaml:"predicate"`
	Object    string `json:"object" yaml:"object"`
}

// Triples returns every triple whose subject is subject, in insertion order.
func (s *Store) Triples(ctx context.Context, subject string) ([]Triple, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT subject, predicate, object FROM triples WHERE subject = ? ORDER BY rowid`, subject)
	if err != nil {
		return nil, fmt.Errorf("querying triples: %w", err)
	}
	defer rows.Close()

	var out []Triple
	for rows.Next() {
		var (
			t   Triple
			obj sql.NullString
		)
		if err := rows.Scan(&t.Subject, &t.Predicate, &obj); err != nil {
			return nil, fmt.Errorf("scanning triple: %w", err)
		}
		t.Object = obj.String
		out = append(out, t)
	}
	return out, rows.Err()
}

// DocumentCount returns the number of indexed subjects.
func (s *Store) DocumentCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM docs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}
