// Package segment splits statute text into a preamble and an ordered list
// of labelled spans (numbered sections and chapter markers).
//
// Section detection is line-anchored: a span opens on any line that starts,
// after optional whitespace, with digits, an optional uppercase letter and an
// optional period, followed by whitespace and heading text. The whitespace
// between the label and the heading may cross a line break, so a number alone
// on a line takes the next line as its heading.
//
// A line holding only "CHAPTER <roman numeral>", optionally followed by one
// letter for inserted chapters ("CHAPTER IXA"), opens a chapter span whose
// heading is the next non-blank line. A section span whose heading itself
// begins with "CHAPTER <TOKEN>" is also treated as a chapter marker.
package segment

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dgallion1/lawgest/internal/lawdoc"
)

// Anchor separates the preamble from the body.
const Anchor = "ARRANGEMENT OF SECTIONS"

var (
	anchorPattern  = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(Anchor))
	sectionPattern = regexp.MustCompile(`(?m)^` + lawdoc.WS + `*(\p{Nd}+[A-Z]?\.?)` + lawdoc.WS + `+(.+)`)
	chapterLine    = regexp.MustCompile(`(?m)^[ \t]*((?i:CHAPTER)[ \t]+[IVXLCDM]+[A-Z]?)[ \t]*\r?$`)
	chapterHeading = regexp.MustCompile(`^(?i:CHAPTER)` + lawdoc.WS + `+[A-Z]+`)
)

// Split runs the preamble split and span extraction over rawText.
func Split(rawText string) lawdoc.Segmentation {
	seg := lawdoc.Segmentation{}

	if loc := anchorPattern.FindStringIndex(rawText); loc != nil {
		seg.Preamble = lawdoc.Trim(rawText[:loc[0]])
		seg.PreambleEnd = loc[0]
	}
	seg.BodyStart = seg.PreambleEnd

	seg.Spans = Spans(rawText, seg.BodyStart)

	leadEnd := len(rawText)
	if len(seg.Spans) > 0 {
		leadEnd = seg.Spans[0].Start
	}
	seg.Lead = rawText[seg.BodyStart:leadEnd]
	return seg
}

// Spans extracts ordered, contiguous spans from rawText[bodyStart:]. Offsets
// in the returned spans index into rawText.
func Spans(rawText string, bodyStart int) []lawdoc.Span {
	body := rawText[bodyStart:]

	sections := sectionPattern.FindAllStringSubmatchIndex(body, -1)
	labelStarts := make(map[int]bool, len(sections))
	spans := make([]lawdoc.Span, 0, len(sections))
	for _, m := range sections {
		labelStarts[m[2]] = true
		heading := lawdoc.Trim(body[m[4]:m[5]])
		kind := lawdoc.KindSection
		if chapterHeading.MatchString(heading) {
			kind = lawdoc.KindChapter
		}
		spans = append(spans, lawdoc.Span{
			Kind:       kind,
			Label:      lawdoc.Trim(body[m[2]:m[3]]),
			Heading:    heading,
			Start:      m[0],
			HeadingEnd: m[1],
		})
	}

	for _, m := range chapterLine.FindAllStringSubmatchIndex(body, -1) {
		if insideHeadingLine(sections, m[2]) {
			continue
		}
		sp := lawdoc.Span{
			Kind:       lawdoc.KindChapter,
			Label:      strings.Join(strings.Fields(body[m[2]:m[3]]), " "),
			Start:      m[0],
			HeadingEnd: m[1],
		}
		if ls, le, ok := nextLine(body, m[1]); ok && !labelOnLine(labelStarts, ls, le) && !chapterLine.MatchString(body[ls:le]) {
			sp.Heading = lawdoc.Trim(body[ls:le])
			sp.HeadingEnd = le
		}
		spans = append(spans, sp)
	}

	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	for i := range spans {
		end := len(body)
		if i+1 < len(spans) {
			end = spans[i+1].Start
		}
		spans[i].End = end
		spans[i].Body = body[spans[i].HeadingEnd:end]
		spans[i].Start += bodyStart
		spans[i].HeadingEnd += bodyStart
		spans[i].End += bodyStart
	}
	return spans
}

// insideHeadingLine reports whether pos falls within the label-and-heading
// range of a section match. Such chapter lines already surfaced as a section
// heading and are classified from there.
func insideHeadingLine(sections [][]int, pos int) bool {
	for _, m := range sections {
		if pos >= m[0] && pos < m[1] {
			return true
		}
		if m[0] > pos {
			break
		}
	}
	return false
}

// nextLine returns the bounds of the first non-blank line after offset from,
// which must sit at or before a line break.
func nextLine(text string, from int) (int, int, bool) {
	i := from
	for i < len(text) {
		nl := strings.IndexByte(text[i:], '\n')
		if nl < 0 {
			return 0, 0, false
		}
		start := i + nl + 1
		end := len(text)
		if j := strings.IndexByte(text[start:], '\n'); j >= 0 {
			end = start + j
		}
		if lawdoc.Trim(text[start:end]) != "" {
			return start, end, true
		}
		i = end
	}
	return 0, 0, false
}

func labelOnLine(labelStarts map[int]bool, start, end int) bool {
	for pos := range labelStarts {
		if pos >= start && pos < end {
			return true
		}
	}
	return false
}
