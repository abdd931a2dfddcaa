// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SectionName identifies one of the six fixed paper sections.
// Per prd001-generation R1.1.
type SectionName string

const (
	SectionAbstract     SectionName = "Abstract"
	SectionIntroduction SectionName = "Introduction"
	SectionMethodology  SectionName = "Methodology"
	SectionResults      SectionName = "Results"
	SectionDiscussion   SectionName = "Discussion"
	SectionConclusion   SectionName = "Conclusion"
)

// SectionOrder is the fixed generation order. Papers are generated front to
// back; the prompt for a section carries only sections that precede it.
// Per prd001-generation R1.2.
var SectionOrder = []SectionName{
	SectionAbstract,
	SectionIntroduction,
	SectionMethodology,
	SectionResults,
	SectionDiscussion,
	SectionConclusion,
}

// PaperRequest holds the user inputs for one generation run. A request is
// immutable once submitted. Per prd001-generation R2.1-R2.4.
type PaperRequest struct {
	// Topic is the research topic the paper is about.
	Topic string `json:"topic" yaml:"topic"`

	// Methodology summarizes the research methods used.
	Methodology string `json:"methodology" yaml:"methodology"`

	// KeyResults summarizes the main findings.
	KeyResults string `json:"key_results" yaml:"key_results"`

	// SaveMarkdown requests a Markdown export alongside the Word document.
	SaveMarkdown bool `json:"save_markdown" yaml:"save_markdown"`

	// SaveHTML requests an HTML export alongside the Word document.
	SaveHTML bool `json:"save_html,omitempty" yaml:"save_html,omitempty"`
}

// SectionResult holds one generated section. A result is created when its
// section completes and never mutated afterwards. Per prd001-generation R3.1.
type SectionResult struct {
	// Name is the section this result belongs to.
	Name SectionName `json:"name" yaml:"name"`

	// Text is the generated section body.
	Text string `json:"text" yaml:"text"`

	// Citations lists parenthetical citations in order of appearance within
	// the section text, repeats included.
	Citations []string `json:"citations,omitempty" yaml:"citations,omitempty"`
}

// PaperDocument is the assembled paper. It exists only after all six
// sections generated successfully; a failed run produces no document.
// Per prd001-generation R4.1-R4.3.
type PaperDocument struct {
	// RunID uniquely identifies the generation run.
	RunID string `json:"run_id" yaml:"run_id"`

	// Topic is the research topic from the originating request.
	Topic string `json:"topic" yaml:"topic"`

	// Sections holds the generated sections in generation order.
	Sections []SectionResult `json:"sections" yaml:"sections"`

	// References lists unique citations across all sections, ordered by
	// first appearance.
	References []string `json:"references,omitempty" yaml:"references,omitempty"`

	// Model is the AI model that generated the paper.
	Model string `json:"model" yaml:"model"`

	// GeneratedAt is the completion time of the run.
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}

// Section returns the result for the named section and true if present.
func (d *PaperDocument) Section(name SectionName) (SectionResult, bool) {
	for _, s := range d.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return SectionResult{}, false
}

// SectionStatus tracks a section's state during a generation run.
// Per prd004-interface R3.2.
type SectionStatus string

const (
	StatusPending    SectionStatus = "pending"
	StatusGenerating SectionStatus = "generating"
	StatusComplete   SectionStatus = "complete"
	StatusFailed     SectionStatus = "failed"
)

// Progress is a point-in-time snapshot of a generation run, published on
// every section state transition. Consumers receive snapshots instead of
// sharing mutable run state. Per prd001-generation R5.3, prd004-interface R3.1.
type Progress struct {
	// Section is the section the snapshot refers to.
	Section SectionName `json:"section" yaml:"section"`

	// Index is the zero-based position of Section in SectionOrder.
	Index int `json:"index" yaml:"index"`

	// Total is the number of sections in the run.
	Total int `json:"total" yaml:"total"`

	// Status is the section's new state.
	Status SectionStatus `json:"status" yaml:"status"`
}
