package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SummaryWriter prints a human-readable digest of a report.
type SummaryWriter interface {
	WriteSummary(r *Report) error
}

// Summary formats accepted by NewSummaryWriter.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// NewSummaryWriter returns the summary writer for format, falling back to text.
func NewSummaryWriter(format string, output io.Writer) SummaryWriter {
	if format == FormatMarkdown {
		return NewMarkdownWriter(output)
	}
	return NewTextWriter(output)
}

// Marshal encodes r as JSON indented with two spaces.
func Marshal(r *Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// WriteFile stores r as indented JSON at path, creating parent directories.
func WriteFile(path string, r *Report) error {
	data, err := Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return writeBytes(path, data)
}

// WriteScreenshot stores the PNG bytes at path, creating parent directories.
func WriteScreenshot(path string, png []byte) error {
	return writeBytes(path, png)
}

func writeBytes(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644) //nolint:gosec // output files are meant to be readable
}

// TextWriter prints labelled, pretty-printed JSON fragments.
type TextWriter struct {
	output io.Writer
}

func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{output: output}
}

func (w *TextWriter) WriteSummary(r *Report) error {
	if _, err := fmt.Fprint(w.output, "\n=== Website Analysis ===\n\n"); err != nil {
		return err
	}

	parts := []struct {
		label string
		value any
	}{
		{"Meta Information:", r.Meta},
		{"\nNavigation Links:", r.NavLinks},
		{"\nPage Headings:", r.Headings},
		{"\nSections:", r.Sections},
		{"\nForms:", r.Forms},
	}
	for _, p := range parts {
		data, err := json.MarshalIndent(p.value, "", "  ")
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w.output, "%s\n%s\n", p.label, data); err != nil {
			return err
		}
	}
	return nil
}
