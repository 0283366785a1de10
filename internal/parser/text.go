package parser

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// TextExtractor handles plain text files. The text is passed through as is.
type TextExtractor struct{}

func (e *TextExtractor) Extract(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: not valid UTF-8", filename)
	}
	return string(data), nil
}
