// Package strings holds small text helpers shared by the terminal packages.
package strings

import (
	"strings"
)

// OneLine collapses every run of whitespace, including newlines, into a
// single space.
func OneLine(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// NormalizeNewlines replaces CRLF and CR with LF.
func NormalizeNewlines(value string) string {
	if value == "" {
		return value
	}
	value = strings.ReplaceAll(value, "\r\n", "\n")
	return strings.ReplaceAll(value, "\r", "\n")
}

// TrimTrailingNewlines removes trailing CR/LF characters.
func TrimTrailingNewlines(value string) string {
	return strings.TrimRight(value, "\r\n")
}

// Paragraphs splits text on blank lines. Lines inside a paragraph are
// joined with single spaces.
func Paragraphs(value string) []string {
	lines := strings.Split(NormalizeNewlines(value), "\n")
	var paragraphs []string
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		paragraphs = append(paragraphs, OneLine(strings.Join(current, " ")))
		current = nil
	}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return paragraphs
}
