// Package yml contains read-only helpers for navigating YAML node trees.
package yml

import (
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"
)

// MapEntry is a single key/value pair of a mapping node.
type MapEntry struct {
	Key     string
	KeyNode *yaml.Node
	Value   *yaml.Node
}

// GetMapElementNodes returns the key and value nodes for key within mapNode.
func GetMapElementNodes(mapNode *yaml.Node, key string) (*yaml.Node, *yaml.Node, bool) {
	resolvedMapNode := ResolveAlias(mapNode)
	if resolvedMapNode == nil || resolvedMapNode.Kind != yaml.MappingNode {
		return nil, nil, false
	}

	content := ResolveMergeKeys(resolvedMapNode.Content)
	for i := 0; i+1 < len(content); i += 2 {
		keyNode := content[i]
		if resolveKeyValue(keyNode) == key {
			return keyNode, content[i+1], true
		}
	}

	return nil, nil, false
}

// GetMapElement returns the (alias resolved) value node for key or nil when absent.
func GetMapElement(mapNode *yaml.Node, key string) *yaml.Node {
	_, value, ok := GetMapElementNodes(mapNode, key)
	if !ok {
		return nil
	}
	return ResolveAlias(value)
}

// HasMapElement reports whether the mapping contains key.
func HasMapElement(mapNode *yaml.Node, key string) bool {
	_, _, ok := GetMapElementNodes(mapNode, key)
	return ok
}

// MapEntries returns the entries of a mapping node in document order with merge keys expanded and
// values alias resolved. Non mapping nodes yield no entries.
func MapEntries(mapNode *yaml.Node) []MapEntry {
	resolved := ResolveAlias(mapNode)
	if resolved == nil || resolved.Kind != yaml.MappingNode {
		return nil
	}

	content := ResolveMergeKeys(resolved.Content)
	entries := make([]MapEntry, 0, len(content)/2)
	for i := 0; i+1 < len(content); i += 2 {
		entries = append(entries, MapEntry{
			Key:     resolveKeyValue(content[i]),
			KeyNode: content[i],
			Value:   ResolveAlias(content[i+1]),
		})
	}
	return entries
}

// SequenceItems returns the alias resolved items of a sequence node.
func SequenceItems(node *yaml.Node) []*yaml.Node {
	resolved := ResolveAlias(node)
	if resolved == nil || resolved.Kind != yaml.SequenceNode {
		return nil
	}
	items := make([]*yaml.Node, 0, len(resolved.Content))
	for _, item := range resolved.Content {
		items = append(items, ResolveAlias(item))
	}
	return items
}

// ResolveAlias follows alias nodes to the node they point at.
func ResolveAlias(node *yaml.Node) *yaml.Node {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case yaml.AliasNode:
		return ResolveAlias(node.Alias)
	default:
		return node
	}
}

// ScalarString returns the value of a scalar node.
func ScalarString(node *yaml.Node) (string, bool) {
	node = ResolveAlias(node)
	if node == nil || node.Kind != yaml.ScalarNode {
		return "", false
	}
	return node.Value, true
}

// StringValue returns the value of a string scalar, or an empty string for anything else.
func StringValue(node *yaml.Node) string {
	node = ResolveAlias(node)
	if node == nil || node.Kind != yaml.ScalarNode || node.ShortTag() != "!!str" {
		return ""
	}
	return node.Value
}

// BoolValue returns the value of a boolean scalar.
func BoolValue(node *yaml.Node) (bool, bool) {
	node = ResolveAlias(node)
	if node == nil || node.Kind != yaml.ScalarNode || node.ShortTag() != "!!bool" {
		return false, false
	}
	b, err := strconv.ParseBool(strings.ToLower(node.Value))
	if err != nil {
		return false, false
	}
	return b, true
}

// NumberValue returns the value of an integer or float scalar.
func NumberValue(node *yaml.Node) (float64, bool) {
	node = ResolveAlias(node)
	if node == nil || node.Kind != yaml.ScalarNode {
		return 0, false
	}
	switch node.ShortTag() {
	case "!!int", "!!float":
	default:
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(node.Value, "_", ""), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// IsTrue reports whether node is the boolean scalar true.
func IsTrue(node *yaml.Node) bool {
	b, ok := BoolValue(node)
	return ok && b
}

// StringSequence returns the string scalars of a sequence node, skipping other items.
func StringSequence(node *yaml.Node) []string {
	var out []string
	for _, item := range SequenceItems(node) {
		if s, ok := ScalarString(item); ok {
			out = append(out, s)
		}
	}
	return out
}

// IsMergeKey returns true if the given node is a YAML merge key (<<).
func IsMergeKey(node *yaml.Node) bool {
	return node != nil && node.Kind == yaml.ScalarNode && node.Tag == "!!merge" && node.Value == "<<"
}

// ResolveMergeKeys processes a mapping node's content and expands any YAML merge keys (<<).
// Explicit keys in the mapping take precedence over merged keys.
// Returns the original content if no merge keys are present.
func ResolveMergeKeys(content []*yaml.Node) []*yaml.Node {
	return resolveMergeKeys(content, nil)
}

func resolveKeyValue(node *yaml.Node) string {
	resolved := ResolveAlias(node)
	if resolved == nil {
		return node.Value
	}
	return resolved.Value
}

func resolveMergeKeys(content []*yaml.Node, seen map[*yaml.Node]bool) []*yaml.Node {
	if len(content)%2 == 1 {
		content = content[:len(content)-1]
	}

	explicitKeys := make(map[string]struct{})
	hasMergeKey := false
	for i := 0; i < len(content); i += 2 {
		if IsMergeKey(content[i]) {
			hasMergeKey = true
		} else {
			explicitKeys[resolveKeyValue(content[i])] = struct{}{}
		}
	}
	if !hasMergeKey {
		return content
	}

	var merged []*yaml.Node
	seenMerged := make(map[string]struct{})
	for i := 0; i < len(content); i += 2 {
		if !IsMergeKey(content[i]) {
			continue
		}
		if resolved := ResolveAlias(content[i+1]); resolved != nil {
			collectMergedPairs(resolved, explicitKeys, seenMerged, &merged, seen)
		}
	}

	result := make([]*yaml.Node, 0, len(merged)+len(content))
	result = append(result, merged...)
	for i := 0; i < len(content); i += 2 {
		if IsMergeKey(content[i]) {
			continue
		}
		result = append(result, content[i], content[i+1])
	}
	return result
}

func collectMergedPairs(node *yaml.Node, explicitKeys, seenMerged map[string]struct{}, out *[]*yaml.Node, seen map[*yaml.Node]bool) {
	switch node.Kind {
	case yaml.MappingNode:
		if seen == nil {
			seen = make(map[*yaml.Node]bool)
		}
		if seen[node] {
			return
		}
		seen[node] = true

		flat := resolveMergeKeys(node.Content, seen)
		for j := 0; j < len(flat); j += 2 {
			key := resolveKeyValue(flat[j])
			if _, explicit := explicitKeys[key]; explicit {
				continue
			}
			if _, already := seenMerged[key]; already {
				continue
			}
			*out = append(*out, flat[j], flat[j+1])
			seenMerged[key] = struct{}{}
		}
	case yaml.SequenceNode:
		// <<: [*a, *b]
		for _, item := range node.Content {
			if resolved := ResolveAlias(item); resolved != nil && resolved.Kind == yaml.MappingNode {
				collectMergedPairs(resolved, explicitKeys, seenMerged, out, seen)
			}
		}
	}
}
