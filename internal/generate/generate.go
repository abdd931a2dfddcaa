// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate produces complete research paper drafts section by
// section through a Generative AI backend.
// Implements: prd001-generation (R1-R6);
//
//	docs/ARCHITECTURE § Generation.
package generate

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/paper-engine/pkg/types"
)

// Decoding settings sent with every generation call. Near-deterministic on
// purpose: the same request should draft substantially the same paper.
// These are fixed, not configuration.
const (
	samplingTemperature = 0.001
	samplingTopP        = 1.0
	samplingTopK        = 40
	maxOutputTokens     = 8192
)

// defaultInterSectionDelay is the pause between consecutive section calls
// when the config leaves it unset. Tests override this to avoid real sleeps.
var defaultInterSectionDelay = time.Second

// Backend abstracts the Generative AI API so tests can supply a mock.
// Each implementation handles a single blocking generation call and returns
// the raw section text. Per Strategy pattern (prd001-generation R6.1).
type Backend interface {
	// Name identifies the backend (e.g. "gemini") for status output.
	Name() string

	// Generate produces the text for one section prompt. A returned
	// error is final: the run aborts at the failing section.
	Generate(ctx context.Context, prompt string) (string, error)
}

// ConfigError reports invalid run configuration detected before any
// generation call is made (R2.2, R6.3).
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// SectionError reports a generation failure in a named section (R5.1).
// The run aborts at the failing section; no result exists for it or any
// later section.
type SectionError struct {
	Section types.SectionName
	Err     error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("generating %s: %v", e.Section, e.Err)
}

func (e *SectionError) Unwrap() error { return e.Err }

// ProgressFunc receives a snapshot on every section state transition.
// A nil ProgressFunc disables reporting (R5.3).
type ProgressFunc func(types.Progress)

// WriterProgress returns a ProgressFunc that prints one status line per
// transition to w, in the pipeline's usual fixed-width form.
func WriterProgress(w io.Writer) ProgressFunc {
	return func(p types.Progress) {
		fmt.Fprintf(w, "%-10s %s (%d/%d)\n", p.Status, p.Section, p.Index+1, p.Total)
	}
}

// ValidateRequest checks that the request carries every required field.
// Export flags are optional; the three text fields are not (R2.2).
func ValidateRequest(req types.PaperRequest) error {
	switch {
	case req.Topic == "":
		return &ConfigError{Field: "topic", Reason: "research topic is required"}
	case req.Methodology == "":
		return &ConfigError{Field: "methodology", Reason: "methodology summary is required"}
	case req.KeyResults == "":
		return &ConfigError{Field: "key_results", Reason: "key results summary is required"}
	}
	return nil
}

// Run generates all six paper sections in order and assembles the final
// document (R1.2, R3.1, R4.1). Each section's prompt carries the full text
// of every earlier section; any backend failure aborts the run with a
// SectionError and no document. Progress snapshots are delivered through
// progress after each state transition; the caller owns all run state it
// receives (R5.3).
func Run(ctx context.Context, backend Backend, req types.PaperRequest, cfg types.GenerationConfig, progress ProgressFunc) (*types.PaperDocument, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	delay := cfg.InterSectionDelay
	if delay == 0 {
		delay = defaultInterSectionDelay
	}

	total := len(types.SectionOrder)
	report := func(name types.SectionName, i int, status types.SectionStatus) {
		if progress != nil {
			progress(types.Progress{Section: name, Index: i, Total: total, Status: status})
		}
	}

	doc := &types.PaperDocument{
		RunID: uuid.NewString(),
		Topic: req.Topic,
		Model: ResolveModel(cfg.AIConfig),
	}

	for i, name := range types.SectionOrder {
		report(name, i, types.StatusGenerating)

		prompt, err := BuildPrompt(req, name, doc.Sections)
		if err != nil {
			report(name, i, types.StatusFailed)
			return nil, &SectionError{Section: name, Err: err}
		}

		text, err := backend.Generate(ctx, prompt)
		if err != nil {
			report(name, i, types.StatusFailed)
			return nil, &SectionError{Section: name, Err: err}
		}

		doc.Sections = append(doc.Sections, types.SectionResult{
			Name:      name,
			Text:      text,
			Citations: ExtractCitations(text),
		})
		report(name, i, types.StatusComplete)

		// Pace consecutive API calls (R6.4). The last section has no successor.
		if i < total-1 && delay > 0 {
			next := types.SectionOrder[i+1]
			select {
			case <-ctx.Done():
				report(next, i+1, types.StatusFailed)
				return nil, &SectionError{Section: next, Err: ctx.Err()}
			case <-time.After(delay):
			}
		}
	}

	doc.References = DedupeCitations(doc.Sections)
	doc.GeneratedAt = time.Now().UTC()
	return doc, nil
}
