package yml

import "go.yaml.in/yaml/v4"

// NodeKindToString returns a human-readable string representation of a yaml.Kind.
func NodeKindToString(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "object"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}

// DescribeNode returns the JSON flavoured name of the value held by node, used in error messages
// (e.g. "string", "integer", "boolean", "array", "object").
func DescribeNode(node *yaml.Node) string {
	node = ResolveAlias(node)
	if node == nil {
		return "missing"
	}

	if node.Kind != yaml.ScalarNode {
		if node.Kind == yaml.SequenceNode {
			return "array"
		}
		return NodeKindToString(node.Kind)
	}

	switch node.ShortTag() {
	case "!!str":
		return "string"
	case "!!int":
		return "integer"
	case "!!float":
		return "number"
	case "!!bool":
		return "boolean"
	case "!!null":
		return "null"
	default:
		return "scalar"
	}
}
