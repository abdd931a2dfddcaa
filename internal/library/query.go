// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pdiddy/paper-engine/pkg/types"
)

// PaperSummary is one row of the library listing (R3.1).
type PaperSummary struct {
	RunID        string    `json:"run_id" yaml:"run_id"`
	Topic        string    `json:"topic" yaml:"topic"`
	Model        string    `json:"model" yaml:"model"`
	GeneratedAt  time.Time `json:"generated_at" yaml:"generated_at"`
	SectionCount int       `json:"section_count" yaml:"section_count"`
}

// SearchResult is one full-text match with its paper context (R4.2).
type SearchResult struct {
	RunID       string    `json:"run_id" yaml:"run_id"`
	Topic       string    `json:"topic" yaml:"topic"`
	Section     string    `json:"section" yaml:"section"`
	Content     string    `json:"content" yaml:"content"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}

// List returns summaries of every archived paper, newest first (R3.1, R3.2).
func (s *Store) List(ctx context.Context) ([]PaperSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.run_id, p.topic, p.model, p.generated_at,
			(SELECT count(*) FROM sections WHERE run_id = p.run_id)
		FROM papers p
		ORDER BY p.generated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()

	var summaries []PaperSummary
	for rows.Next() {
		var (
			summary PaperSummary
			genAt   string
		)
		if err := rows.Scan(&summary.RunID, &summary.Topic, &summary.Model, &genAt, &summary.SectionCount); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		summary.GeneratedAt, _ = time.Parse(time.RFC3339, genAt)
		summaries = append(summaries, summary)
	}

	return summaries, rows.Err()
}

// Get reassembles an archived paper, sections in generation order (R3.3).
func (s *Store) Get(ctx context.Context, runID string) (*types.PaperDocument, error) {
	var (
		doc      types.PaperDocument
		genAt    string
		refsJSON sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id, topic, model, generated_at, refs FROM papers WHERE run_id = ?`, runID,
	).Scan(&doc.RunID, &doc.Topic, &doc.Model, &genAt, &refsJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("paper %s not found", runID)
		}
		return nil, fmt.Errorf("looking up paper: %w", err)
	}

	doc.GeneratedAt, _ = time.Parse(time.RFC3339, genAt)
	if refsJSON.Valid {
		json.Unmarshal([]byte(refsJSON.String), &doc.References)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, content, citations FROM sections WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying sections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			section types.SectionResult
			name    string
			citJSON sql.NullString
		)
		if err := rows.Scan(&name, &section.Text, &citJSON); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		section.Name = types.SectionName(name)
		if citJSON.Valid {
			json.Unmarshal([]byte(citJSON.String), &section.Citations)
		}
		doc.Sections = append(doc.Sections, section)
	}

	return &doc, rows.Err()
}

// Request rebuilds the generation request an archived paper was made from.
func (s *Store) Request(ctx context.Context, runID string) (*types.PaperRequest, error) {
	var req types.PaperRequest
	err := s.db.QueryRowContext(ctx,
		`SELECT topic, methodology, key_results FROM papers WHERE run_id = ?`, runID,
	).Scan(&req.Topic, &req.Methodology, &req.KeyResults)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("paper %s not found", runID)
		}
		return nil, fmt.Errorf("looking up paper: %w", err)
	}
	return &req, nil
}

// Search runs an FTS5 full-text query over section content, ranked by
// relevance (R4.1, R4.3).
func (s *Store) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("search query is empty")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT sec.run_id, p.topic, sec.name, sec.content, p.generated_at
		FROM sections_fts
		JOIN sections sec ON sec.rowid = sections_fts.rowid
		JOIN papers p ON sec.run_id = p.run_id
		WHERE sections_fts MATCH ?
		ORDER BY sections_fts.rank
		LIMIT ?`, query, s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("searching library: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			result SearchResult
			genAt  string
		)
		if err := rows.Scan(&result.RunID, &result.Topic, &result.Section, &result.Content, &genAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		result.GeneratedAt, _ = time.Parse(time.RFC3339, genAt)
		results = append(results, result)
	}

	return results, rows.Err()
}
