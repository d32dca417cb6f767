package references

import (
	"fmt"

	"github.com/speakeasy-api/openapi-schema-lint/errors"
	"github.com/speakeasy-api/openapi-schema-lint/jsonpointer"
	"github.com/speakeasy-api/openapi-schema-lint/walk"
	"github.com/speakeasy-api/openapi-schema-lint/yml"
	"go.yaml.in/yaml/v4"
)

const (
	// ErrExternalReference is returned for references to other documents, which are never loaded.
	ErrExternalReference = errors.Error("external reference not supported")
	// ErrInvalidReference is returned when a local reference cannot be resolved.
	ErrInvalidReference = errors.Error("invalid reference")
	// ErrCircularReference is returned when a chain of $ref only points at other $refs in a loop.
	ErrCircularReference = errors.Error("circular reference")
)

// GetReference returns the $ref of a mapping node if it has one.
func GetReference(node *yaml.Node) (Reference, bool) {
	refNode := yml.GetMapElement(node, "$ref")
	if refNode == nil {
		return "", false
	}
	ref, ok := yml.ScalarString(refNode)
	if !ok {
		return "", false
	}
	return Reference(ref), true
}

// ResolveLocal resolves a single local reference against the document root returning the target
// node and its location.
func ResolveLocal(root *yaml.Node, ref Reference) (*yaml.Node, walk.Locations, error) {
	if err := ref.Validate(); err != nil {
		return nil, nil, ErrInvalidReference.Wrap(err)
	}
	if !ref.IsLocal() {
		return nil, nil, ErrExternalReference.Wrapf("%s", ref)
	}

	pointer := ref.GetJSONPointer()
	if pointer == "" {
		pointer = "/"
	}

	target, err := jsonpointer.GetNodeTarget(root, pointer)
	if err != nil {
		return nil, nil, ErrInvalidReference.Wrap(fmt.Errorf("%s: %w", ref, err))
	}

	parts, err := pointer.Parts()
	if err != nil {
		return nil, nil, ErrInvalidReference.Wrap(err)
	}

	return yml.ResolveAlias(target), walk.Of(parts...), nil
}

// ResolveChain follows $ref from node until it reaches a node that is not a reference.
// The returned locations are those of the final definition. Non reference nodes are returned as is.
func ResolveChain(root, node *yaml.Node, loc walk.Locations) (*yaml.Node, walk.Locations, error) {
	var seen map[*yaml.Node]struct{}

	for {
		ref, ok := GetReference(node)
		if !ok {
			return node, loc, nil
		}

		if seen == nil {
			seen = make(map[*yaml.Node]struct{})
		}
		if _, visited := seen[node]; visited {
			return nil, nil, ErrCircularReference.Wrapf("%s", ref)
		}
		seen[node] = struct{}{}

		target, targetLoc, err := ResolveLocal(root, ref)
		if err != nil {
			return nil, nil, err
		}

		node, loc = target, targetLoc
	}
}
