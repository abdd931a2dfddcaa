// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library archives generated papers in a SQLite database with
// full-text search over section content.
// Implements: prd003-library (R1-R5);
//
//	docs/ARCHITECTURE § Library.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-engine/pkg/types"
)

const dbFile = "library.db"

// defaultMaxResults caps search results when the config leaves it unset.
const defaultMaxResults = 20

// Store manages the paper library SQLite database.
type Store struct {
	db         *sql.DB
	libraryDir string
	maxResults int
}

// NewStore opens or creates the library database at libraryDir/library.db,
// creating the schema if it does not exist (R1.1, R1.2).
func NewStore(cfg types.LibraryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.LibraryDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}

	dbPath := filepath.Join(cfg.LibraryDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		libraryDir: cfg.LibraryDir,
		maxResults: maxResults,
	}

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

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			run_id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			methodology TEXT,
			key_results TEXT,
			model TEXT,
			generated_at TEXT,
			refs TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS sections (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES papers(run_id),
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			content TEXT NOT NULL,
			citations TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sections_run_id ON sections(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='sections_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE sections_fts USING fts5(content, content=sections, content_rowid=rowid)`,
			`CREATE TRIGGER sections_ai AFTER INSERT ON sections BEGIN
				INSERT INTO sections_fts(rowid, content) VALUES (new.rowid, new.content);
			END`,
			`CREATE TRIGGER sections_ad AFTER DELETE ON sections BEGIN
				INSERT INTO sections_fts(sections_fts, rowid, content) VALUES('delete', old.rowid, old.content);
			END`,
			`CREATE TRIGGER sections_au AFTER UPDATE ON sections BEGIN
				INSERT INTO sections_fts(sections_fts, rowid, content) VALUES('delete', old.rowid, old.content);
				INSERT INTO sections_fts(rowid, content) VALUES (new.rowid, new.content);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Save archives a completed paper with its request fields (R2.1, R2.2).
// Saving the same run twice replaces the earlier copy.
func (s *Store) Save(ctx context.Context, doc *types.PaperDocument, req types.PaperRequest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE run_id = ?`, doc.RunID); err != nil {
		return fmt.Errorf("deleting old sections: %w", err)
	}

	refsJSON, _ := json.Marshal(doc.References)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO papers (run_id, topic, methodology, key_results, model, generated_at, refs)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(run_id) DO UPDATE SET
			topic=excluded.topic, methodology=excluded.methodology,
			key_results=excluded.key_results, model=excluded.model,
			generated_at=excluded.generated_at, refs=excluded.refs`,
		doc.RunID, doc.Topic, req.Methodology, req.KeyResults,
		doc.Model, doc.GeneratedAt.UTC().Format(time.RFC3339), string(refsJSON),
	)
	if err != nil {
		return fmt.Errorf("upserting paper: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sections (run_id, position, name, content, citations)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, section := range doc.Sections {
		citationsJSON, _ := json.Marshal(section.Citations)
		_, err := stmt.ExecContext(ctx,
			doc.RunID, i, string(section.Name), section.Text, string(citationsJSON),
		)
		if err != nil {
			return fmt.Errorf("inserting section %s: %w", section.Name, err)
		}
	}

	return tx.Commit()
}

// Delete removes a paper and its sections from the library (R5.1). It
// reports an error when the run does not exist.
func (s *Store) Delete(ctx context.Context, runID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("deleting sections: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM papers WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("deleting paper: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("paper %s not found", runID)
	}

	return tx.Commit()
}
