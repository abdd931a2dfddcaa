// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/paper-engine/pkg/types"
)

// MarkdownFormatter renders the canonical Markdown layout: one heading block
// per section, separated by horizontal rules. Per prd002-export R2.2.
type MarkdownFormatter struct{}

// Extension returns the markdown file extension.
func (MarkdownFormatter) Extension() string { return "md" }

// Format writes the Markdown rendering of doc to w.
func (MarkdownFormatter) Format(doc *types.PaperDocument, w io.Writer) error {
	_, err := io.WriteString(w, Markdown(doc))
	return err
}

// Markdown renders doc as "## <Section>" blocks joined by rules, with a
// References block last when any citations were collected.
func Markdown(doc *types.PaperDocument) string {
	blocks := make([]string, 0, len(doc.Sections)+1)
	for _, s := range doc.Sections {
		blocks = append(blocks, fmt.Sprintf("## %s\n\n%s\n", s.Name, strings.TrimSpace(s.Text)))
	}
	if len(doc.References) > 0 {
		var b strings.Builder
		b.WriteString("## References\n\n")
		for _, ref := range doc.References {
			fmt.Fprintf(&b, "- %s\n", ref)
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n---\n")
}
