// Package openapi loads OpenAPI documents as YAML node trees and provides a resolved view
// of their local references together with an index of operations, schemas and security data.
package openapi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/speakeasy-api/openapi-schema-lint/references"
	"github.com/speakeasy-api/openapi-schema-lint/walk"
	"github.com/speakeasy-api/openapi-schema-lint/yml"
	"go.yaml.in/yaml/v4"
)

// Document is an OpenAPI document held as its raw YAML node tree.
//
// The tree itself is the unresolved view of the document. Resolve provides the resolved view by
// following local $ref chains to their definitions without copying or mutating the tree.
type Document struct {
	// Location is the path or URL the document was loaded from, if known.
	Location string

	root *yaml.Node
}

// NewDocument wraps an already decoded YAML tree. Both document nodes and mapping nodes are accepted.
func NewDocument(root *yaml.Node, location string) (*Document, error) {
	node := root
	if node != nil && node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, ErrInvalidDocument.Wrap(fmt.Errorf("document is empty"))
		}
		node = node.Content[0]
	}
	node = yml.ResolveAlias(node)

	if node == nil || node.Kind != yaml.MappingNode {
		kind := "missing"
		if node != nil {
			kind = yml.NodeKindToString(node.Kind)
		}
		return nil, ErrInvalidDocument.Wrap(fmt.Errorf("expected an object at the document root, got %s", kind))
	}

	return &Document{Location: location, root: node}, nil
}

// Root returns the root mapping node of the document.
func (d *Document) Root() *yaml.Node {
	if d == nil {
		return nil
	}
	return d.root
}

// Version returns the value of the openapi field.
func (d *Document) Version() string {
	if d == nil {
		return ""
	}
	return strings.TrimSpace(yml.StringValue(yml.GetMapElement(d.root, "openapi")))
}

// IsVersion reports whether the document's version matches the given version or version prefix
// ("3.0" matches "3.0.3").
func (d *Document) IsVersion(version string) bool {
	v := d.Version()
	return v == version || strings.HasPrefix(v, version+".")
}

// Get returns the node at the given locations from the root of the document without following references.
func (d *Document) Get(loc walk.Locations) *yaml.Node {
	node := d.Root()
	for _, segment := range loc {
		if node == nil {
			return nil
		}
		switch node.Kind {
		case yaml.MappingNode:
			node = yml.GetMapElement(node, segment)
		case yaml.SequenceNode:
			items := yml.SequenceItems(node)
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(items) {
				return nil
			}
			node = items[idx]
		default:
			return nil
		}
	}
	return node
}

// Resolve follows local $ref chains starting at node and returns the definition node with the
// location of the definition. Nodes without a $ref are returned unchanged.
//
// References to other documents are not loaded and fail with references.ErrExternalReference.
func (d *Document) Resolve(node *yaml.Node, loc walk.Locations) (*yaml.Node, walk.Locations, error) {
	return references.ResolveChain(d.Root(), node, loc)
}
