package yml

import (
	"context"

	"github.com/speakeasy-api/openapi-schema-lint/errors"
	"github.com/speakeasy-api/openapi-schema-lint/walk"
	"go.yaml.in/yaml/v4"
)

const (
	// ErrTerminate is a sentinel error that can be returned from a Walk function to terminate the walk.
	ErrTerminate = errors.Error("terminate")
	// ErrSkipChildren can be returned from a Walk function to skip the children of the current node.
	ErrSkipChildren = errors.Error("skip children")
)

// VisitFunc is called for each value node in the tree with its parent and its location from the root.
// Mapping keys are not visited.
type VisitFunc func(ctx context.Context, node, parent *yaml.Node, loc walk.Locations) error

// Walk walks the yaml node structure depth first in document order and calls visit for each value node.
// Aliases are followed once per walk to avoid looping on recursive anchors.
func Walk(ctx context.Context, node *yaml.Node, visit VisitFunc) error {
	w := &walker{visit: visit, seenAliases: make(map[*yaml.Node]bool)}
	if err := w.walkNode(ctx, node, nil, walk.Root()); err != nil {
		if errors.Is(err, ErrTerminate) {
			return nil
		}
		return err
	}
	return nil
}

type walker struct {
	visit       VisitFunc
	seenAliases map[*yaml.Node]bool
}

func (w *walker) walkNode(ctx context.Context, node, parent *yaml.Node, loc walk.Locations) error {
	if node == nil {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if node.Kind == yaml.DocumentNode {
		for _, child := range node.Content {
			if err := w.walkNode(ctx, child, node, loc); err != nil {
				return err
			}
		}
		return nil
	}

	if node.Kind == yaml.AliasNode {
		if w.seenAliases[node.Alias] {
			return nil
		}
		w.seenAliases[node.Alias] = true
		return w.walkNode(ctx, node.Alias, parent, loc)
	}

	if err := w.visit(ctx, node, parent, loc); err != nil {
		if errors.Is(err, ErrSkipChildren) {
			return nil
		}
		return err
	}

	switch node.Kind {
	case yaml.MappingNode:
		for _, entry := range MapEntries(node) {
			if err := w.walkNode(ctx, entry.Value, node, loc.Append(entry.Key)); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		for i, item := range node.Content {
			if err := w.walkNode(ctx, item, node, loc.AppendIndex(i)); err != nil {
				return err
			}
		}
	}

	return nil
}
