// Package references parses $ref values and resolves local references within a single document.
package references

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/speakeasy-api/openapi-schema-lint/jsonpointer"
)

// Reference is the raw value of a $ref keyword.
type Reference string

var _ fmt.Stringer = (*Reference)(nil)

// GetURI returns the document part of the reference (before #).
func (r Reference) GetURI() string {
	uri, _, _ := strings.Cut(string(r), "#")
	return strings.TrimSpace(uri)
}

func (r Reference) HasJSONPointer() bool {
	return strings.Contains(string(r), "#")
}

// GetJSONPointer returns the fragment of the reference as a JSON pointer.
func (r Reference) GetJSONPointer() jsonpointer.JSONPointer {
	_, fragment, ok := strings.Cut(string(r), "#")
	if !ok {
		return ""
	}

	pointer := strings.TrimSpace(fragment)

	// percent encoded characters such as %7B for { are common in path references
	if decoded, err := url.PathUnescape(pointer); err == nil {
		pointer = decoded
	}

	return jsonpointer.JSONPointer(pointer)
}

// IsLocal reports whether the reference points into the current document.
func (r Reference) IsLocal() bool {
	return r.GetURI() == "" && r.HasJSONPointer()
}

// ComponentName returns the final segment of the reference's pointer, which for component
// references is the component's name (e.g. Movie for #/components/schemas/Movie).
func (r Reference) ComponentName() string {
	parts, err := r.GetJSONPointer().Parts()
	if err != nil || len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

func (r Reference) Validate() error {
	if r == "" {
		return errors.New("reference is empty")
	}

	uri := r.GetURI()

	if uri != "" {
		if _, err := url.Parse(uri); err != nil {
			return fmt.Errorf("invalid reference URI: %w", err)
		}
	}

	if r.HasJSONPointer() {
		jp := r.GetJSONPointer()
		if jp == "" {
			return nil // "#" refers to the whole document
		}

		if err := jp.Validate(); err != nil {
			return fmt.Errorf("invalid reference JSON pointer: %w", err)
		}
	}

	return nil
}

func (r Reference) String() string {
	return string(r)
}
