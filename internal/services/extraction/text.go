package extraction

import (
	"errors"
	"unicode/utf8"
)

// ErrBinaryContent is returned when a document's bytes cannot be read as text.
var ErrBinaryContent = errors.New("extraction: content is not valid text")

// TextExtractor converts raw document bytes into plain text. Rendering of
// binary formats (PDF and friends) lives behind this boundary; the parsers
// in this package only ever see text.
type TextExtractor interface {
	Extract(content []byte, filename string) (string, error)
}

// PlainText reads documents that are already text.
type PlainText struct{}

func (PlainText) Extract(content []byte, filename string) (string, error) {
	if !utf8.Valid(content) {
		return "", ErrBinaryContent
	}
	return string(content), nil
}
