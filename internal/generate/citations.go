// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Implements: prd001-generation (R3.2, R4.2);
//
//	docs/ARCHITECTURE § Generation.
package generate

import (
	"regexp"
	"strings"

	"github.com/pdiddy/paper-engine/pkg/types"
)

// Citation regex patterns (R3.2).
var (
	// parentheticalRe matches one parenthetical group, no nesting.
	parentheticalRe = regexp.MustCompile(`\(([^()]+)\)`)

	// yearRe matches a plausible publication year.
	yearRe = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
)

// ExtractCitations scans section text for parenthetical citations and
// returns their inner text in order of appearance, repeats included. A
// parenthetical counts as a citation only when it carries a publication
// year, which excludes asides like "(p < 0.05)" or "(Figure 2)". Groups
// citing several works at once are split on semicolons, each part kept
// only if it carries its own year. Extraction is pure: the same text
// always yields the same citation sequence (R3.2, R3.3).
func ExtractCitations(text string) []string {
	var citations []string
	for _, m := range parentheticalRe.FindAllStringSubmatch(text, -1) {
		for _, part := range strings.Split(m[1], ";") {
			part = strings.TrimSpace(part)
			if part == "" || !yearRe.MatchString(part) {
				continue
			}
			citations = append(citations, part)
		}
	}
	return citations
}

// DedupeCitations assembles the references list for a sequence of sections:
// unique citation strings ordered by first appearance, walking sections in
// generation order (R4.2).
func DedupeCitations(sections []types.SectionResult) []string {
	seen := make(map[string]bool)
	var refs []string
	for _, s := range sections {
		for _, c := range s.Citations {
			if seen[c] {
				continue
			}
			seen[c] = true
			refs = append(refs, c)
		}
	}
	return refs
}
