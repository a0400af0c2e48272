package validation

import (
	"errors"
	"testing"
)

type sample string

const (
	first  sample = "first"
	second sample = "second"
)

func TestJoinValues(t *testing.T) {
	if got := JoinValues([]sample{first, second}); got != "first, second" {
		t.Fatalf("expected %q, got %q", "first, second", got)
	}
	if got := JoinValues([]sample{}); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestInvalidValue(t *testing.T) {
	base := errors.New("invalid sample")
	err := InvalidValue(base, "bad", []sample{first, second})
	if !errors.Is(err, base) {
		t.Fatalf("expected error to wrap %v", base)
	}

	want := `invalid sample: "bad" (valid: first, second)`
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}
