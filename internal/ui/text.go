package ui

import (
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	internalstrings "github.com/amonks/tasktrack/internal/strings"
)

// ReflowParagraphs wraps each paragraph of value to width.
func ReflowParagraphs(value string, width int) string {
	if width < 1 {
		width = 1
	}
	paragraphs := internalstrings.Paragraphs(value)
	wrapped := make([]string, 0, len(paragraphs))
	for _, paragraph := range paragraphs {
		wrapped = append(wrapped, wordwrap.String(paragraph, width))
	}
	return strings.Join(wrapped, "\n\n")
}

// IndentBlock prefixes each line with spaces.
func IndentBlock(value string, spaces int) string {
	value = internalstrings.TrimTrailingNewlines(value)
	if spaces <= 0 || value == "" {
		return value
	}
	return indent.String(value, uint(spaces))
}
