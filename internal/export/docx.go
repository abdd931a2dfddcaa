// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/pdiddy/paper-engine/pkg/types"
)

const (
	// titleSize is the topic heading size in half-points.
	titleSize = "36"
	// headingSize is the section heading size in half-points.
	headingSize = "28"
)

// DocxFormatter renders the paper as a Word document: a centered topic
// title, then one bold heading and body paragraph per section, then the
// collected references. Per prd002-export R2.1.
type DocxFormatter struct{}

// Extension returns the Word file extension.
func (DocxFormatter) Extension() string { return "docx" }

// Format writes the Word rendering of doc to w.
func (DocxFormatter) Format(doc *types.PaperDocument, w io.Writer) error {
	d := docx.New().WithDefaultTheme()

	title := d.AddParagraph().Justification("center")
	title.AddText(doc.Topic).Size(titleSize).Bold()
	d.AddParagraph()

	for _, s := range doc.Sections {
		heading := d.AddParagraph()
		heading.AddText(string(s.Name)).Size(headingSize).Bold()
		d.AddParagraph().AddText(strings.TrimSpace(s.Text))
		d.AddParagraph()
	}

	if len(doc.References) > 0 {
		heading := d.AddParagraph()
		heading.AddText("References").Size(headingSize).Bold()
		for _, ref := range doc.References {
			d.AddParagraph().AddText(ref)
		}
	}

	if _, err := d.WriteTo(w); err != nil {
		return fmt.Errorf("writing docx: %w", err)
	}
	return nil
}
