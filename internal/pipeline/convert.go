package pipeline

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/dgallion1/lawgest/internal/assemble"
	"github.com/dgallion1/lawgest/internal/identity"
	"github.com/dgallion1/lawgest/internal/lawdoc"
	"github.com/dgallion1/lawgest/internal/parser"
	"github.com/dgallion1/lawgest/internal/segment"
)

// ErrExtraction marks a document that could not be read or decoded.
var ErrExtraction = errors.New("extraction failed")

// WarnNoSections is attached to results whose body has no numbered sections.
const WarnNoSections = "no sections detected; only the preamble record was produced"

// Result is the conversion of one document.
type Result struct {
	lawdoc.RecordSet
	Sections int
	Warnings []string
}

// Extract turns raw file bytes into a Document using the extractor for
// filename's extension.
func Extract(data []byte, filename string, opts parser.Options) (lawdoc.Document, error) {
	ex, err := parser.ForFile(filename, opts)
	if err != nil {
		return lawdoc.Document{}, fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	text, err := ex.Extract(bytes.NewReader(data), filename)
	if err != nil {
		return lawdoc.Document{}, fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	return lawdoc.Document{RawText: text, SourceName: filename}, nil
}

// Convert resolves the identity, segments the text and assembles the
// ordered records. It is pure: equal documents give equal results.
func Convert(doc lawdoc.Document) Result {
	id := identity.Resolve(doc.RawText, doc.SourceName)
	seg := segment.Split(doc.RawText)

	res := Result{
		RecordSet: lawdoc.RecordSet{
			Identity:    id,
			SourceName:  doc.SourceName,
			ContentHash: ContentHashHex([]byte(doc.RawText)),
			Records:     assemble.Records(id, seg),
		},
		Sections: seg.SectionCount(),
	}
	if res.Sections == 0 {
		res.Warnings = append(res.Warnings, WarnNoSections)
	}
	return res
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
