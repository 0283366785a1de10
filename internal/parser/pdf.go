package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFExtractor handles PDF files. It tries the Go library first,
// then falls back to pdftotext if available.
type PDFExtractor struct {
	FallbackPdftotext bool
}

func (e *PDFExtractor) Extract(r io.Reader, filename string) (string, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "lawgest-pdf-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	text, err := extractPDFText(tmpPath)
	// Some statutes embed fonts the Go reader cannot map and come back blank.
	// A scan without a text layer stays blank when pdftotext cannot help.
	if (err != nil || strings.TrimSpace(text) == "") && e.FallbackPdftotext {
		if alt, altErr := extractPdftotext(tmpPath); altErr == nil {
			text, err = alt, nil
		}
	}
	if err != nil {
		return "", fmt.Errorf("extract pdf text from %s: %w", filename, err)
	}
	return text, nil
}

// extractPDFText rebuilds each page line by line from text rows grouped by
// baseline, top to bottom. Pages are joined with a newline.
func extractPDFText(path string) (text string, err error) {
	// The reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		if i > 1 {
			buf.WriteString("\n")
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, rowErr := page.GetTextByRow()
		if rowErr != nil {
			continue
		}
		buf.WriteString(joinRows(rows))
	}
	return buf.String(), nil
}

// joinRows orders rows top to bottom and each row's fragments left to right.
func joinRows(rows pdflib.Rows) string {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position > rows[j].Position })
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		sort.SliceStable(row.Content, func(i, j int) bool { return row.Content[i].X < row.Content[j].X })
		var line strings.Builder
		for _, t := range row.Content {
			line.WriteString(t.S)
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", "-enc", "UTF-8", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	// pdftotext separates pages with form feeds.
	return strings.ReplaceAll(string(out), "\f", "\n"), nil
}
