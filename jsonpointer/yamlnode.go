package jsonpointer

import (
	"fmt"

	"go.yaml.in/yaml/v4"
)

// GetNodeTarget evaluates the pointer against a YAML node tree and returns the target node.
// Document nodes are transparently unwrapped and alias nodes are followed.
func GetNodeTarget(root *yaml.Node, pointer JSONPointer) (*yaml.Node, error) {
	stack, err := pointer.getNavigationStack()
	if err != nil {
		return nil, ErrValidation.Wrap(err)
	}

	node := unwrap(root)
	currentPath := ""

	for _, part := range stack {
		currentPath += "/" + part.Value

		if node == nil {
			return nil, ErrNotFound.Wrap(fmt.Errorf("yaml node is nil at %s", currentPath))
		}

		switch node.Kind {
		case yaml.MappingNode:
			next, ok := getMappingValue(node, part.unescapeValue())
			if !ok {
				return nil, ErrNotFound.Wrap(fmt.Errorf("key %s not found in yaml mapping at %s", part.unescapeValue(), currentPath))
			}
			node = unwrap(next)
		case yaml.SequenceNode:
			index, ok := part.getIndex()
			if !ok {
				return nil, ErrInvalidPath.Wrap(fmt.Errorf("expected index, got %s at %s", part.Type, currentPath))
			}
			if index < 0 || index >= len(node.Content) {
				return nil, ErrNotFound.Wrap(fmt.Errorf("index %d out of range for yaml sequence of length %d at %s", index, len(node.Content), currentPath))
			}
			node = unwrap(node.Content[index])
		case yaml.ScalarNode:
			return nil, ErrInvalidPath.Wrap(fmt.Errorf("cannot navigate through scalar yaml node at %s", currentPath))
		default:
			return nil, ErrInvalidPath.Wrap(fmt.Errorf("unsupported yaml node kind %v at %s", node.Kind, currentPath))
		}
	}

	if node == nil {
		return nil, ErrNotFound.Wrap(fmt.Errorf("yaml node is nil at %s", pointer))
	}

	return node, nil
}

func unwrap(node *yaml.Node) *yaml.Node {
	for node != nil {
		switch {
		case node.Kind == yaml.AliasNode:
			node = node.Alias
		case node.Kind == yaml.DocumentNode && len(node.Content) > 0:
			node = node.Content[0]
		default:
			return node
		}
	}
	return nil
}

func getMappingValue(node *yaml.Node, key string) (*yaml.Node, bool) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := unwrap(node.Content[i])
		if keyNode != nil && keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return node.Content[i+1], true
		}
	}
	return nil, false
}
