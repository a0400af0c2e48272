// Package validation formats errors for closed sets of string values.
package validation

import (
	"fmt"
	"strings"
)

// JoinValues joins string-like values for usage text and error messages.
func JoinValues[T ~string](values []T) string {
	formatted := make([]string, 0, len(values))
	for _, value := range values {
		formatted = append(formatted, string(value))
	}
	return strings.Join(formatted, ", ")
}

// InvalidValue wraps base with the rejected value and the accepted ones.
func InvalidValue[V ~string, T ~string](base error, value V, valid []T) error {
	return fmt.Errorf("%w: %q (valid: %s)", base, string(value), JoinValues(valid))
}
