// Package walk provides the location type used to describe where a node sits within a document.
package walk

import (
	"strconv"
	"strings"

	"github.com/speakeasy-api/openapi-schema-lint/jsonpointer"
)

// Locations is the ordered list of keys (and array indices rendered as strings) leading from the
// document root to a node. Locations are values: Append never modifies the receiver, so a
// Locations can be handed down a recursion and shared between siblings safely.
type Locations []string

// Root returns an empty location representing the document root.
func Root() Locations {
	return Locations{}
}

// Of builds locations from the given segments.
func Of(segments ...string) Locations {
	return Locations(nil).Append(segments...)
}

// Append returns a new Locations with the segments added to the end.
func (l Locations) Append(segments ...string) Locations {
	out := make(Locations, len(l), len(l)+len(segments))
	copy(out, l)
	return append(out, segments...)
}

// AppendIndex returns a new Locations with an array index added to the end.
func (l Locations) AppendIndex(index int) Locations {
	return l.Append(strconv.Itoa(index))
}

// Last returns the final segment or an empty string for the root.
func (l Locations) Last() string {
	if len(l) == 0 {
		return ""
	}
	return l[len(l)-1]
}

// HasPrefix reports whether l starts with all segments of prefix.
func (l Locations) HasPrefix(prefix Locations) bool {
	if len(prefix) > len(l) {
		return false
	}
	for i := range prefix {
		if l[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Equal reports whether both locations contain the same segments.
func (l Locations) Equal(other Locations) bool {
	return len(l) == len(other) && l.HasPrefix(other)
}

// ToJSONPointer converts the locations to a JSON pointer.
func (l Locations) ToJSONPointer() jsonpointer.JSONPointer {
	return jsonpointer.PartsToJSONPointer(l)
}

// ToJSONPath renders the locations in the dotted JSONPath form used by rule engines
// (e.g. $.paths['/v1/movies'].get). Segments that are not plain identifiers are bracket quoted.
func (l Locations) ToJSONPath() string {
	var sb strings.Builder
	sb.WriteString("$")
	for _, segment := range l {
		if isPlainSegment(segment) {
			sb.WriteString(".")
			sb.WriteString(segment)
			continue
		}
		sb.WriteString("['")
		sb.WriteString(strings.ReplaceAll(segment, "'", `\'`))
		sb.WriteString("']")
	}
	return sb.String()
}

func (l Locations) String() string {
	return strings.Join(l, ".")
}

func isPlainSegment(segment string) bool {
	if segment == "" {
		return false
	}
	for _, r := range segment {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '$', r == '-':
		default:
			return false
		}
	}
	return true
}
