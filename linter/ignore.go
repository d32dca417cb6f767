package linter

import (
	"fmt"
	"regexp"
	"strings"
	"unsafe"

	"github.com/speakeasy-api/jsonpath/pkg/jsonpath"
	"github.com/speakeasy-api/jsonpath/pkg/jsonpath/config"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
	"github.com/vmware-labs/yaml-jsonpath/pkg/yamlpath"
	"go.yaml.in/yaml/v4"
	yamlv3 "gopkg.in/yaml.v3"
)

// nodeV4toV3 converts a *yaml.v4.Node to a *yaml.v3.Node via unsafe pointer cast.
// v4.Node is a strict superset of v3.Node with identical leading fields.
func nodeV4toV3(n *yaml.Node) *yamlv3.Node {
	return (*yamlv3.Node)(unsafe.Pointer(n)) //nolint:gosec
}

// nodesV3toV4 converts a []*yaml.v3.Node slice to []*yaml.v4.Node.
func nodesV3toV4(nodes []*yamlv3.Node) []*yaml.Node {
	return *(*[]*yaml.Node)(unsafe.Pointer(&nodes)) //nolint:gosec
}

// pathMatcher decides whether a result lies within an ignored part of the document.
type pathMatcher interface {
	match(root *yaml.Node, vErr *validation.Error) bool
}

func newPathMatcher(path string) (pathMatcher, error) {
	switch {
	case strings.HasPrefix(path, "$"):
		if p, err := jsonpath.NewPath(path, config.WithPropertyNameExtension()); err == nil {
			return &selectorMatcher{query: func(root *yaml.Node) []*yaml.Node {
				return nodesV3toV4(p.Query(nodeV4toV3(root)))
			}}, nil
		}
		p, err := yamlpath.NewPath(path)
		if err != nil {
			return nil, fmt.Errorf("invalid jsonpath %q: %w", path, err)
		}
		return &selectorMatcher{query: func(root *yaml.Node) []*yaml.Node {
			found, _ := p.Find(nodeV4toV3(root))
			return nodesV3toV4(found)
		}}, nil
	case strings.HasPrefix(path, "/"):
		return pointerMatcher(strings.TrimSuffix(path, "/")), nil
	default:
		return nil, fmt.Errorf("path %q must be a JSONPath starting with $ or a JSON pointer starting with /", path)
	}
}

// pointerMatcher matches results whose path is the pointer or lies below it.
type pointerMatcher string

func (p pointerMatcher) match(_ *yaml.Node, vErr *validation.Error) bool {
	if vErr.Path == nil {
		return false
	}
	pointer := vErr.Path.ToJSONPointer().String()
	prefix := string(p)
	return prefix == "" || pointer == prefix || strings.HasPrefix(pointer, prefix+"/")
}

// selectorMatcher matches results anchored at or below any node selected by a JSONPath query.
// The selected subtrees are computed once per root.
type selectorMatcher struct {
	query func(root *yaml.Node) []*yaml.Node

	root  *yaml.Node
	nodes map[*yaml.Node]struct{}
}

func (s *selectorMatcher) match(root *yaml.Node, vErr *validation.Error) bool {
	if root == nil || vErr.Node == nil {
		return false
	}
	if s.nodes == nil || s.root != root {
		s.root = root
		s.nodes = make(map[*yaml.Node]struct{})
		for _, n := range s.query(root) {
			collectSubtree(n, s.nodes)
		}
	}
	_, ok := s.nodes[vErr.Node]
	return ok
}

func collectSubtree(node *yaml.Node, into map[*yaml.Node]struct{}) {
	if node == nil {
		return
	}
	if _, seen := into[node]; seen {
		return
	}
	into[node] = struct{}{}
	for _, child := range node.Content {
		collectSubtree(child, into)
	}
}

// ignoreMatcher is a compiled IgnorePattern.
type ignoreMatcher struct {
	rule    string
	path    pathMatcher
	message *regexp.Regexp
}

func compileIgnores(patterns []IgnorePattern) ([]*ignoreMatcher, error) {
	matchers := make([]*ignoreMatcher, 0, len(patterns))
	for i, pattern := range patterns {
		m := &ignoreMatcher{rule: pattern.Rule}
		if pattern.Path != "" {
			path, err := newPathMatcher(pattern.Path)
			if err != nil {
				return nil, fmt.Errorf("ignores[%d]: %w", i, err)
			}
			m.path = path
		}
		if pattern.MessagePattern != "" {
			re, err := regexp.Compile(pattern.MessagePattern)
			if err != nil {
				return nil, fmt.Errorf("ignores[%d]: invalid message_pattern: %w", i, err)
			}
			m.message = re
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}

func (m *ignoreMatcher) matches(root *yaml.Node, vErr *validation.Error) bool {
	if m.rule != "" && m.rule != vErr.Rule {
		return false
	}
	if m.message != nil && !m.message.MatchString(vErr.GetMessage()) {
		return false
	}
	if m.path != nil && !m.path.match(root, vErr) {
		return false
	}
	return true
}
