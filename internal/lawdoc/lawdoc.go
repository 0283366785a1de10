// Package lawdoc holds the statute data model shared by the conversion stages.
package lawdoc

import (
	"strings"
	"unicode"
)

// Document is one extracted input file.
type Document struct {
	RawText    string // Full extracted text, line breaks preserved
	SourceName string // Input filename, used for the fallback title
}

// Identity is the resolved name and classification of a statute.
type Identity struct {
	Title string // Human-readable statute name
	Code  string // Classification token, e.g. "BNS"
	Slug  string // Identifier namespace for every record of the document
}

// SpanKind distinguishes section spans from chapter markers.
type SpanKind string

const (
	KindSection SpanKind = "section"
	KindChapter SpanKind = "chapter"
)

// Span is a labelled slice of body text. Offsets index into Document.RawText:
// [Start, HeadingEnd) is the label line, [HeadingEnd, End) is the body.
type Span struct {
	Kind    SpanKind
	Label   string
	Heading string
	Body    string

	Start      int
	HeadingEnd int
	End        int
}

// Segmentation is the output of the structural segmenter.
type Segmentation struct {
	Preamble    string // Trimmed text before the anchor phrase
	PreambleEnd int    // Offset where the raw preamble ends
	BodyStart   int    // Offset where span extraction begins (== PreambleEnd)
	Lead        string // Body text before the first span; not emitted as a record
	Spans       []Span
}

// SectionCount returns the number of non-chapter spans.
func (s Segmentation) SectionCount() int {
	n := 0
	for _, sp := range s.Spans {
		if sp.Kind == KindSection {
			n++
		}
	}
	return n
}

// Record is one emitted provision. Field order is the wire order.
type Record struct {
	ID      string  `json:"id"`
	LawName string  `json:"law_name"`
	LawCode string  `json:"law_code"`
	Chapter *string `json:"chapter"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
}

// PreambleTitle is the title of the single preamble record.
const PreambleTitle = "Preamble"

// WS is a regexp character class for the whitespace set that IsSpace accepts.
const WS = `[\t\n\v\f\r\x{1c}-\x{1f}\x{85}\p{Z}]`

// IsSpace reports whether r is whitespace, including the ASCII
// information separators U+001C..U+001F that some PDF extractors emit.
func IsSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// Trim removes leading and trailing whitespace as defined by IsSpace.
func Trim(s string) string {
	return strings.TrimFunc(s, IsSpace)
}

// RecordSet is the converted form of one document, handed to output sinks.
type RecordSet struct {
	Identity    Identity
	SourceName  string
	ContentHash string // Hex SHA-256 of the raw text
	Records     []Record
}
