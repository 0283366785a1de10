package parser

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor handles Markdown files using goldmark. Heading markers
// are dropped; ordered-list numbers are restored in front of their items so
// "1. Short title" survives as a line.
type MarkdownExtractor struct{}

// listMarker matches the ordered-list marker left of an item's first line.
var listMarker = regexp.MustCompile(`(\d{1,9}[.)])[ \t]*$`)

func (e *MarkdownExtractor) Extract(r io.Reader, filename string) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var lines []string
	var walk func(n ast.Node, prefix string)
	walk = func(n ast.Node, prefix string) {
		switch node := n.(type) {
		case *ast.Heading:
			lines = append(lines, prefix+string(node.Text(src)))
			return
		case *ast.ThematicBreak:
			return
		case *ast.List:
			i := 0
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				marker := ""
				if node.IsOrdered() {
					marker = sourceMarker(c, src)
					if marker == "" {
						marker = fmt.Sprintf("%d%c ", node.Start+i, node.Marker)
					}
				}
				walk(c, marker)
				i++
			}
			return
		}

		// Leaf blocks carry their source lines.
		if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
			segs := n.Lines()
			for i := 0; i < segs.Len(); i++ {
				seg := segs.At(i)
				line := strings.TrimRight(string(seg.Value(src)), "\r\n")
				if i == 0 {
					line = prefix + line
				}
				lines = append(lines, line)
			}
			return
		}

		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c, prefix)
			prefix = ""
		}
	}
	walk(doc, "")

	return strings.Join(lines, "\n"), nil
}

// sourceMarker returns the marker as written in front of item, so gaps in
// the numbering ("53." then "55.") survive. It is empty for items without
// text.
func sourceMarker(item ast.Node, src []byte) string {
	start, ok := firstSegmentStart(item)
	if !ok {
		return ""
	}
	lineStart := start
	for lineStart > 0 && src[lineStart-1] != '\n' {
		lineStart--
	}
	m := listMarker.FindSubmatch(src[lineStart:start])
	if m == nil {
		return ""
	}
	return string(m[1]) + " "
}

func firstSegmentStart(n ast.Node) (int, bool) {
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		return n.Lines().At(0).Start, true
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if start, ok := firstSegmentStart(c); ok {
			return start, true
		}
	}
	return 0, false
}
