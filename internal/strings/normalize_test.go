package strings

import (
	"reflect"
	"testing"
)

func TestOneLine(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: " \n\t ", want: ""},
		{name: "single token", input: "report", want: "report"},
		{name: "collapses spaces", input: "one   two    three", want: "one two three"},
		{name: "collapses newlines", input: "Hello\nWorld\r\nAgain\tTab", want: "Hello World Again Tab"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := OneLine(tc.input); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalizeNewlines(t *testing.T) {
	if got := NormalizeNewlines("a\r\nb\rc"); got != "a\nb\nc" {
		t.Fatalf("expected LF line endings, got %q", got)
	}
}

func TestTrimTrailingNewlines(t *testing.T) {
	if got := TrimTrailingNewlines("body\r\n\n"); got != "body" {
		t.Fatalf("expected trailing newlines trimmed, got %q", got)
	}
}

func TestParagraphs(t *testing.T) {
	got := Paragraphs("first line\nstill first\n\n\n  second  \r\n")
	want := []string{"first line still first", "second"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := Paragraphs("  \n "); got != nil {
		t.Fatalf("expected no paragraphs, got %v", got)
	}
}
