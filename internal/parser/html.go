package parser

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// HTMLExtractor handles HTML files. Block elements and <br> end a line.
type HTMLExtractor struct{}

var htmlSpace = regexp.MustCompile(`[ \t\r\n\f]+`)

func (e *HTMLExtractor) Extract(r io.Reader, filename string) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html %s: %w", filename, err)
	}

	var lines []string
	var current strings.Builder
	// marker waits for the first non-empty line of a list item.
	var marker string

	flushLine := func() {
		t := strings.TrimSpace(htmlSpace.ReplaceAllString(current.String(), " "))
		if t != "" {
			lines = append(lines, marker+t)
			marker = ""
		}
		current.Reset()
	}

	// The <title> usually carries the statute name.
	if title := findTitle(doc); title != "" {
		current.WriteString(title)
		flushLine()
	}

	var walk func(n *html.Node, pre bool)
	walk = func(n *html.Node, pre bool) {
		switch n.Type {
		case html.TextNode:
			if !pre {
				current.WriteString(n.Data)
				return
			}
			for i, part := range strings.Split(n.Data, "\n") {
				if i > 0 {
					flushLine()
				}
				current.WriteString(part)
			}
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "nav", "footer", "header", "head", "noscript":
				return
			case "br":
				flushLine()
				return
			}
			block := isBlock(n.Data)
			if block {
				flushLine()
			}
			if n.Data == "li" {
				marker = orderedMarker(n)
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c, pre || n.Data == "pre")
			}
			if block {
				flushLine()
			}
			if n.Data == "li" {
				marker = ""
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, pre)
		}
	}

	// Find <body> or use whole document.
	if body := findBody(doc); body != nil {
		walk(body, false)
	} else {
		walk(doc, false)
	}
	flushLine()

	return strings.Join(lines, "\n"), nil
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "li", "ul", "ol", "dl", "dt", "dd",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"section", "article", "main", "aside", "blockquote", "pre",
		"table", "tr", "td", "th", "caption", "hr", "center":
		return true
	}
	return false
}

// orderedMarker returns "N. " for an item of an <ol>, honouring the list's
// start attribute and the item's value attribute.
func orderedMarker(li *html.Node) string {
	parent := li.Parent
	if parent == nil || parent.Type != html.ElementNode || parent.Data != "ol" {
		return ""
	}
	num := intAttr(parent, "start", 1) - 1
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		num = intAttr(c, "value", num+1)
		if c == li {
			break
		}
	}
	return strconv.Itoa(num) + ". "
}

func intAttr(n *html.Node, key string, def int) int {
	for _, a := range n.Attr {
		if a.Key == key {
			if v, err := strconv.Atoi(strings.TrimSpace(a.Val)); err == nil {
				return v
			}
		}
	}
	return def
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
