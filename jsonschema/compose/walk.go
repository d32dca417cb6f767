package compose

import (
	"github.com/speakeasy-api/openapi-schema-lint/errors"
	"go.yaml.in/yaml/v4"
)

// ErrSkipChildren can be returned from a VisitFunc to stop descending into the visited schema.
const ErrSkipChildren = errors.Error("skip children")

// VisitFunc is called for every schema object visited. negated is set for schemas nested below a not keyword.
type VisitFunc func(s Schema, negated bool) error

// Walker visits schemas depth first, pre-order, visiting each schema node at most once across all of its walks.
// References are visited but not followed.
type Walker struct {
	seen map[*yaml.Node]struct{}
}

func NewWalker() *Walker {
	return &Walker{seen: make(map[*yaml.Node]struct{})}
}

// Seen reports whether node has already been visited.
func (w *Walker) Seen(node *yaml.Node) bool {
	_, ok := w.seen[node]
	return ok
}

func (w *Walker) Walk(s Schema, negated bool, visit VisitFunc) error {
	if s.Node == nil || s.Node.Kind != yaml.MappingNode {
		return nil
	}
	if w.Seen(s.Node) {
		return nil
	}
	w.seen[s.Node] = struct{}{}

	if err := visit(s, negated); err != nil {
		if errors.Is(err, ErrSkipChildren) {
			return nil
		}
		return err
	}

	for _, child := range s.Children() {
		if err := w.Walk(child.Schema, negated || child.Keyword == KeywordNot, visit); err != nil {
			return err
		}
	}
	return nil
}

// Walk visits s and every schema nested in it.
func Walk(s Schema, visit VisitFunc) error {
	return NewWalker().Walk(s, false, visit)
}
