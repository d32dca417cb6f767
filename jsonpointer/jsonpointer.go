// Package jsonpointer provides JSONPointer an implementation of RFC6901 https://datatracker.ietf.org/doc/html/rfc6901
// navigable over YAML node trees.
package jsonpointer

import (
	"strings"

	"github.com/speakeasy-api/openapi-schema-lint/errors"
)

const (
	// ErrNotFound is returned when the target is not found.
	ErrNotFound = errors.Error("not found")
	// ErrInvalidPath is returned when the path cannot be navigated.
	ErrInvalidPath = errors.Error("invalid path")
	// ErrValidation is returned when the jsonpointer is invalid.
	ErrValidation = errors.Error("validation error")
)

// JSONPointer represents a JSON Pointer value as defined by RFC6901 https://datatracker.ietf.org/doc/html/rfc6901
type JSONPointer string

func (j JSONPointer) String() string {
	return string(j)
}

// Validate will validate the JSONPointer is valid as per RFC6901.
func (j JSONPointer) Validate() error {
	if _, err := j.getNavigationStack(); err != nil {
		return ErrValidation.Wrap(err)
	}
	return nil
}

// Parts returns the unescaped reference tokens of the pointer.
// The root pointer "/" and the empty pointer both return no parts.
func (j JSONPointer) Parts() ([]string, error) {
	if j == "" {
		return nil, nil
	}

	stack, err := j.getNavigationStack()
	if err != nil {
		return nil, ErrValidation.Wrap(err)
	}

	parts := make([]string, 0, len(stack))
	for _, part := range stack {
		parts = append(parts, part.unescapeValue())
	}
	return parts, nil
}

// PartsToJSONPointer will convert the exploded parts of a JSONPointer to a JSONPointer.
func PartsToJSONPointer(parts []string) JSONPointer {
	if len(parts) == 0 {
		return "/"
	}

	var sb strings.Builder
	for _, part := range parts {
		sb.WriteByte('/')
		sb.WriteString(escape(part))
	}
	return JSONPointer(sb.String())
}

// EscapeString escapes a single reference token.
func EscapeString(s string) string {
	return escape(s)
}

func escape(part string) string {
	return strings.ReplaceAll(strings.ReplaceAll(part, "~", "~0"), "/", "~1")
}
