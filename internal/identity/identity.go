// Package identity resolves a statute's title, classification code and slug.
package identity

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dgallion1/lawgest/internal/lawdoc"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Classification codes.
const (
	CodeBNS   = "BNS"
	CodeBNSS  = "BNSS"
	CodeBSA   = "BSA"
	CodeConst = "CONST"
	CodeOther = "OTHER"
)

// MaxSlugLen bounds the slug length in characters.
const MaxSlugLen = 50

// CodeRule maps a literal phrase in the upper-cased title to a code.
type CodeRule struct {
	Phrase string
	Code   string
}

// CodeRules is evaluated in order; the first phrase found wins.
var CodeRules = []CodeRule{
	{Phrase: "NYAYA SANHITA", Code: CodeBNS},
	{Phrase: "NAGRIK SURAKSHA SANHITA", Code: CodeBNSS},
	{Phrase: "SAKSHYA ADHINIYAM", Code: CodeBSA},
	{Phrase: "CONSTITUTION", Code: CodeConst},
}

var (
	titlePattern = regexp.MustCompile(`(?i)THE` + lawdoc.WS + `+(.+?)` + lawdoc.WS + `+(ACT|ADHINIYAM|SANHITA),` + lawdoc.WS + `*(\p{Nd}{4})`)
	nonWord      = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
)

// Resolve determines the identity of a document from its text, falling back
// to the source filename when no title line is found.
func Resolve(rawText, sourceName string) lawdoc.Identity {
	title, ok := TitleFromText(rawText)
	if !ok {
		title = TitleFromFilename(sourceName)
	}

	slug := Slugify(title)
	if slug == "" {
		slug = Slugify(fileStem(sourceName))
	}
	if slug == "" {
		slug = "document"
	}

	return lawdoc.Identity{
		Title: title,
		Code:  Classify(title),
		Slug:  slug,
	}
}

// TitleFromText finds the first "THE <name> ACT|ADHINIYAM|SANHITA, <year>"
// occurrence and rebuilds it as "The <name> <Word>, <year>".
func TitleFromText(rawText string) (string, bool) {
	m := titlePattern.FindStringSubmatch(rawText)
	if m == nil {
		return "", false
	}
	name := lawdoc.Trim(m[1])
	word := titleCase(lawdoc.Trim(m[2]))
	return "The " + name + " " + word + ", " + m[3], true
}

// TitleFromFilename turns "indian_penal_code.pdf" into "Indian Penal Code".
func TitleFromFilename(sourceName string) string {
	stem := strings.ReplaceAll(fileStem(sourceName), "_", " ")
	return titleCase(stem)
}

// Classify returns the code of the first rule whose phrase occurs in title.
func Classify(title string) string {
	upper := strings.ToUpper(title)
	for _, rule := range CodeRules {
		if strings.Contains(upper, rule.Phrase) {
			return rule.Code
		}
	}
	return CodeOther
}

// Slugify lowercases s, collapses every run of non-word characters into a
// single underscore, trims underscores and truncates to MaxSlugLen runes.
func Slugify(s string) string {
	s = strings.ToLower(lawdoc.Trim(s))
	s = nonWord.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if r := []rune(s); len(r) > MaxSlugLen {
		s = string(r[:MaxSlugLen])
	}
	return s
}

// Casers carry state, so each call gets its own.
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

func fileStem(name string) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
