// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes a generated paper to disk as Word, Markdown, and
// HTML documents. Implements: prd002-export (R1, R2, R3);
//
//	docs/ARCHITECTURE § Export.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/paper-engine/pkg/types"
)

// filenamePrefix starts every export filename.
const filenamePrefix = "research_paper"

// timestampLayout formats the generation time embedded in filenames.
const timestampLayout = "20060102_150405"

// Formatter renders a paper document into one output format. Different
// formats (docx, markdown, HTML) implement this interface.
type Formatter interface {
	// Extension returns the filename extension without the dot.
	Extension() string
	// Format writes the rendered document to w.
	Format(doc *types.PaperDocument, w io.Writer) error
}

// Result holds the files written by one export run.
type Result struct {
	// Paths lists every file written, in the order written.
	Paths []string
}

// Formatters returns the formatter set for a request. The Word document is
// always produced; Markdown and HTML follow the request flags.
func Formatters(req types.PaperRequest) []Formatter {
	formatters := []Formatter{DocxFormatter{}}
	if req.SaveMarkdown {
		formatters = append(formatters, MarkdownFormatter{})
	}
	if req.SaveHTML {
		formatters = append(formatters, HTMLFormatter{})
	}
	return formatters
}

// Filename returns the export filename for a generation time and extension,
// research_paper_<yyyymmdd_hhmmss>.<ext>. All files from one run share the
// same timestamp.
func Filename(ts time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", filenamePrefix, ts.Format(timestampLayout), ext)
}

// Export renders doc through every formatter for the request and writes the
// results under cfg.OutputDir, printing one status line per file to w. It
// stops at the first failure; files already written stay on disk.
func Export(doc *types.PaperDocument, req types.PaperRequest, cfg types.ExportConfig, w io.Writer) (Result, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating output directory: %w", err)
	}

	ts := doc.GeneratedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	var result Result
	for _, f := range Formatters(req) {
		path := filepath.Join(cfg.OutputDir, Filename(ts, f.Extension()))
		if err := writeFile(f, doc, path); err != nil {
			fmt.Fprintf(w, "failed:   %s (%v)\n", path, err)
			return result, err
		}
		fmt.Fprintf(w, "exported: %s\n", path)
		result.Paths = append(result.Paths, path)
	}
	return result, nil
}

func writeFile(f Formatter, doc *types.PaperDocument, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := f.Format(doc, file); err != nil {
		file.Close()
		return fmt.Errorf("rendering %s: %w", filepath.Base(path), err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", filepath.Base(path), err)
	}
	return nil
}
