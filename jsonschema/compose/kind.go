package compose

import (
	"github.com/speakeasy-api/openapi-schema-lint/yml"
	"go.yaml.in/yaml/v4"
)

// Kind classifies the shape of a schema node.
type Kind int

const (
	// KindUnknown is anything that is not a schema object: booleans, scalars, sequences and
	// schemas with an unusable type keyword. It never matches a rule.
	KindUnknown Kind = iota
	KindReference
	KindPrimitive
	KindObject
	KindArray
	KindComposition
)

func (k Kind) String() string {
	switch k {
	case KindReference:
		return "reference"
	case KindPrimitive:
		return "primitive"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindComposition:
		return "composition"
	default:
		return "unknown"
	}
}

// Classify determines the Kind of a schema node. A $ref takes precedence, then allOf/oneOf/anyOf,
// then the declared or implied type.
func Classify(node *yaml.Node) Kind {
	node = yml.ResolveAlias(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return KindUnknown
	}

	s := Schema{Node: node}

	if _, ok := s.Reference(); ok {
		return KindReference
	}

	if s.Has(KeywordAllOf) || s.Has(KeywordOneOf) || s.Has(KeywordAnyOf) {
		return KindComposition
	}

	if typeNode := s.Get(KeywordType); typeNode != nil {
		if typeNode.Kind != yaml.ScalarNode && typeNode.Kind != yaml.SequenceNode {
			return KindUnknown
		}
		switch {
		case s.HasType("array"):
			return KindArray
		case s.HasType("object"):
			return KindObject
		default:
			return KindPrimitive
		}
	}

	switch {
	case s.Has(KeywordItems):
		return KindArray
	case s.Has(KeywordProperties), s.Has(KeywordAdditionalProperties), s.Has(KeywordPatternProperties):
		return KindObject
	default:
		return KindPrimitive
	}
}
