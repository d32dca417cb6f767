// Package compose classifies JSON Schema nodes and resolves their composition (allOf, oneOf, anyOf and $ref)
// into the sets of schemas that apply to an instance.
package compose

import (
	"fmt"

	"github.com/speakeasy-api/openapi-schema-lint/errors"
	"github.com/speakeasy-api/openapi-schema-lint/references"
	"github.com/speakeasy-api/openapi-schema-lint/walk"
	"github.com/speakeasy-api/openapi-schema-lint/yml"
	"go.yaml.in/yaml/v4"
)

const (
	KeywordRef                  = "$ref"
	KeywordType                 = "type"
	KeywordFormat               = "format"
	KeywordEnum                 = "enum"
	KeywordConst                = "const"
	KeywordProperties           = "properties"
	KeywordPatternProperties    = "patternProperties"
	KeywordAdditionalProperties = "additionalProperties"
	KeywordItems                = "items"
	KeywordPrefixItems          = "prefixItems"
	KeywordRequired             = "required"
	KeywordAllOf                = "allOf"
	KeywordOneOf                = "oneOf"
	KeywordAnyOf                = "anyOf"
	KeywordNot                  = "not"
	KeywordDiscriminator        = "discriminator"
	KeywordPropertyName         = "propertyName"
	KeywordDeprecated           = "deprecated"
)

// ErrMalformedSchema is matched by errors raised for schema keywords holding values that are not schemas.
const ErrMalformedSchema = errors.Error("malformed schema")

// MalformedSchemaError reports a keyword that must hold a schema but holds something else, such as an
// items keyword holding a string. It prevents a rule from completing and is not a lint finding.
type MalformedSchemaError struct {
	Keyword  string
	Found    string
	Location walk.Locations
	Node     *yaml.Node
}

var _ error = (*MalformedSchemaError)(nil)

func (e *MalformedSchemaError) Error() string {
	line := -1
	if e.Node != nil {
		line = e.Node.Line
	}
	return fmt.Sprintf("%s: %s at %s (line %d) must be a schema object or boolean, found %s", ErrMalformedSchema, e.Keyword, e.Location.ToJSONPointer(), line, e.Found)
}

func (e *MalformedSchemaError) Is(target error) bool {
	return target == error(ErrMalformedSchema)
}

// Schema is a read-only view of a schema node together with the location it was reached at.
type Schema struct {
	Node     *yaml.Node
	Location walk.Locations
}

// Property is a named entry of a schema's properties keyword.
type Property struct {
	Name    string
	KeyNode *yaml.Node
	Schema  Schema
}

// Required is a single entry of a schema's required keyword.
type Required struct {
	Name     string
	Index    int
	Node     *yaml.Node
	Location walk.Locations
}

// Discriminator is the discriminator object of a schema.
type Discriminator struct {
	PropertyName string
	// Node is the propertyName value node.
	Node     *yaml.Node
	Location walk.Locations
}

// Child is a schema nested directly below another schema.
type Child struct {
	Keyword string
	Schema  Schema
}

func NewSchema(node *yaml.Node, loc walk.Locations) Schema {
	return Schema{Node: yml.ResolveAlias(node), Location: loc}
}

func (s Schema) IsZero() bool {
	return s.Node == nil
}

func (s Schema) Kind() Kind {
	return Classify(s.Node)
}

// Get returns the value of a keyword or nil.
func (s Schema) Get(keyword string) *yaml.Node {
	if s.Node == nil || s.Node.Kind != yaml.MappingNode {
		return nil
	}
	return yml.GetMapElement(s.Node, keyword)
}

func (s Schema) Has(keyword string) bool {
	if s.Node == nil || s.Node.Kind != yaml.MappingNode {
		return false
	}
	return yml.HasMapElement(s.Node, keyword)
}

// KeywordNode returns the key node of a keyword, useful to anchor findings to the keyword itself.
func (s Schema) KeywordNode(keyword string) *yaml.Node {
	if s.Node == nil {
		return nil
	}
	key, _, ok := yml.GetMapElementNodes(s.Node, keyword)
	if !ok {
		return nil
	}
	return key
}

// Types returns the declared types, supporting both a single type and a list of types.
func (s Schema) Types() []string {
	typeNode := s.Get(KeywordType)
	if typeNode == nil {
		return nil
	}
	switch typeNode.Kind {
	case yaml.ScalarNode:
		return []string{typeNode.Value}
	case yaml.SequenceNode:
		return yml.StringSequence(typeNode)
	default:
		return nil
	}
}

func (s Schema) HasType(typ string) bool {
	for _, t := range s.Types() {
		if t == typ {
			return true
		}
	}
	return false
}

func (s Schema) Format() string {
	return yml.StringValue(s.Get(KeywordFormat))
}

func (s Schema) Reference() (references.Reference, bool) {
	if s.Node == nil || s.Node.Kind != yaml.MappingNode {
		return "", false
	}
	return references.GetReference(s.Node)
}

// HasEnum reports whether the schema restricts its values with enum or const.
func (s Schema) HasEnum() bool {
	return s.Has(KeywordEnum) || s.Has(KeywordConst)
}

func (s Schema) Deprecated() bool {
	return yml.IsTrue(s.Get(KeywordDeprecated))
}

// Number returns the numeric value of a keyword such as minItems or maximum.
func (s Schema) Number(keyword string) (float64, bool) {
	return yml.NumberValue(s.Get(keyword))
}

// Properties returns the schema's properties in document order.
func (s Schema) Properties() []Property {
	entries := yml.MapEntries(s.Get(KeywordProperties))
	props := make([]Property, 0, len(entries))
	for _, entry := range entries {
		props = append(props, Property{
			Name:    entry.Key,
			KeyNode: entry.KeyNode,
			Schema:  NewSchema(entry.Value, s.Location.Append(KeywordProperties, entry.Key)),
		})
	}
	return props
}

func (s Schema) Property(name string) (Property, bool) {
	for _, prop := range s.Properties() {
		if prop.Name == name {
			return prop, true
		}
	}
	return Property{}, false
}

// Items returns the items schema. A present items keyword holding anything other than an object or
// boolean is returned as a *MalformedSchemaError.
func (s Schema) Items() (Schema, bool, error) {
	items := s.Get(KeywordItems)
	if items == nil {
		return Schema{}, false, nil
	}

	if items.Kind == yaml.MappingNode {
		return NewSchema(items, s.Location.Append(KeywordItems)), true, nil
	}
	if _, ok := yml.BoolValue(items); ok {
		return NewSchema(items, s.Location.Append(KeywordItems)), true, nil
	}

	return Schema{}, false, &MalformedSchemaError{
		Keyword:  KeywordItems,
		Found:    yml.DescribeNode(items),
		Location: s.Location.Append(KeywordItems),
		Node:     items,
	}
}

// AdditionalProperties returns the additionalProperties value, which may be a boolean or a schema.
func (s Schema) AdditionalProperties() (Schema, bool) {
	ap := s.Get(KeywordAdditionalProperties)
	if ap == nil {
		return Schema{}, false
	}
	return NewSchema(ap, s.Location.Append(KeywordAdditionalProperties)), true
}

func (s Schema) Required() []Required {
	var required []Required
	for i, item := range yml.SequenceItems(s.Get(KeywordRequired)) {
		name, ok := yml.ScalarString(item)
		if !ok {
			continue
		}
		required = append(required, Required{
			Name:     name,
			Index:    i,
			Node:     item,
			Location: s.Location.Append(KeywordRequired).AppendIndex(i),
		})
	}
	return required
}

// IsRequired reports whether name is listed in this schema's own required keyword.
func (s Schema) IsRequired(name string) bool {
	for _, r := range s.Required() {
		if r.Name == name {
			return true
		}
	}
	return false
}

func (s Schema) Discriminator() (Discriminator, bool) {
	discriminator := s.Get(KeywordDiscriminator)
	if discriminator == nil {
		return Discriminator{}, false
	}
	_, propertyName, ok := yml.GetMapElementNodes(discriminator, KeywordPropertyName)
	if !ok {
		return Discriminator{}, false
	}
	name, ok := yml.ScalarString(propertyName)
	if !ok {
		return Discriminator{}, false
	}
	return Discriminator{
		PropertyName: name,
		Node:         propertyName,
		Location:     s.Location.Append(KeywordDiscriminator, KeywordPropertyName),
	}, true
}

// Members returns the sub-schemas of allOf, oneOf or anyOf.
func (s Schema) Members(keyword string) []Schema {
	items := yml.SequenceItems(s.Get(keyword))
	members := make([]Schema, 0, len(items))
	for i, item := range items {
		members = append(members, NewSchema(item, s.Location.Append(keyword).AppendIndex(i)))
	}
	return members
}

func (s Schema) Not() (Schema, bool) {
	not := s.Get(KeywordNot)
	if not == nil {
		return Schema{}, false
	}
	return NewSchema(not, s.Location.Append(KeywordNot)), true
}

// Children returns the schemas nested directly in this schema in document order.
// Values that are not schema objects (booleans, malformed values) are skipped.
func (s Schema) Children() []Child {
	var children []Child
	for _, entry := range yml.MapEntries(s.Node) {
		switch entry.Key {
		case KeywordProperties, KeywordPatternProperties:
			for _, prop := range yml.MapEntries(entry.Value) {
				children = appendChild(children, entry.Key, prop.Value, s.Location.Append(entry.Key, prop.Key))
			}
		case KeywordAdditionalProperties, KeywordItems, KeywordNot:
			children = appendChild(children, entry.Key, entry.Value, s.Location.Append(entry.Key))
		case KeywordAllOf, KeywordOneOf, KeywordAnyOf, KeywordPrefixItems:
			for i, item := range yml.SequenceItems(entry.Value) {
				children = appendChild(children, entry.Key, item, s.Location.Append(entry.Key).AppendIndex(i))
			}
		}
	}
	return children
}

func appendChild(children []Child, keyword string, node *yaml.Node, loc walk.Locations) []Child {
	if node == nil || node.Kind != yaml.MappingNode {
		return children
	}
	return append(children, Child{Keyword: keyword, Schema: NewSchema(node, loc)})
}
