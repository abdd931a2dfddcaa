// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/yuin/goldmark"

	"github.com/pdiddy/paper-engine/pkg/types"
)

// HTMLFormatter renders the Markdown layout through goldmark into a
// standalone HTML page. Per prd002-export R2.3.
type HTMLFormatter struct{}

// Extension returns the HTML file extension.
func (HTMLFormatter) Extension() string { return "html" }

// Format writes a complete HTML page for doc to w. The page body is the
// Markdown rendering converted to HTML, under a top-level topic heading.
func (HTMLFormatter) Format(doc *types.PaperDocument, w io.Writer) error {
	md := fmt.Sprintf("# %s\n\n%s", doc.Topic, Markdown(doc))

	var body bytes.Buffer
	if err := goldmark.Convert([]byte(md), &body); err != nil {
		return fmt.Errorf("converting markdown: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	page.WriteString("<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(doc.Topic))
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")

	_, err := io.Copy(w, &page)
	return err
}
