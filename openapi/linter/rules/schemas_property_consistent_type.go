package rules

import (
	"context"
	"slices"
	"strings"

	"github.com/speakeasy-api/openapi-schema-lint/jsonschema/compose"
	"github.com/speakeasy-api/openapi-schema-lint/linter"
	"github.com/speakeasy-api/openapi-schema-lint/openapi"
	"github.com/speakeasy-api/openapi-schema-lint/openapi/linter/consistency"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
	"go.yaml.in/yaml/v4"
)

const RuleSchemasPropertyConsistentType = "schemas-property-consistent-type"

var defaultExcludedNames = []string{"code", "default", "type", "value"}

// maxTypeDepth bounds how deep nested array item types are rendered.
const maxTypeDepth = 8

type PropertyConsistentTypeRule struct{}

func (r *PropertyConsistentTypeRule) ID() string       { return RuleSchemasPropertyConsistentType }
func (r *PropertyConsistentTypeRule) Category() string { return CategorySchemas }
func (r *PropertyConsistentTypeRule) Description() string {
	return "A property name should have the same type wherever it is used in the document. The first sighting of a name sets its type. Later sightings with a different type are reported, as is the first sighting once. Deprecated properties and generic names such as `code`, `default`, `type` and `value` are ignored."
}
func (r *PropertyConsistentTypeRule) Summary() string {
	return "Properties with the same name should have the same type."
}
func (r *PropertyConsistentTypeRule) Link() string {
	return ruleLink(RuleSchemasPropertyConsistentType)
}
func (r *PropertyConsistentTypeRule) DefaultSeverity() validation.Severity {
	return validation.SeverityWarning
}
func (r *PropertyConsistentTypeRule) Versions() []string {
	return nil
}

func (r *PropertyConsistentTypeRule) ConfigSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"excludedNames": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Overloaded property names that are never compared",
			},
		},
		"additionalProperties": false,
	}
}
func (r *PropertyConsistentTypeRule) ConfigDefaults() map[string]any {
	return map[string]any{
		"excludedNames": slices.Clone(defaultExcludedNames),
	}
}

func (r *PropertyConsistentTypeRule) Run(ctx context.Context, docInfo *linter.DocumentInfo[*openapi.Document], config *linter.RuleConfig) []error {
	if !hasIndex(docInfo) {
		return nil
	}

	res := resolverFor(docInfo)
	excluded := toSet(stringListOption(config, "excludedNames", defaultExcludedNames))
	table := consistency.FromContextOrNew(ctx).Table(RuleSchemasPropertyConsistentType)

	var errs []error
	for _, schema := range docInfo.Index.GetAllSchemas() {
		if err := ctx.Err(); err != nil {
			return append(errs, err)
		}
		if schema.Negated {
			continue
		}

		for _, prop := range schema.Properties() {
			if _, skip := excluded[prop.Name]; skip {
				continue
			}
			if isDeprecated(res, prop.Schema) {
				continue
			}

			typ := typeString(res, prop.Schema, 0)
			if typ == "" {
				continue
			}

			sighting := consistency.Sighting{
				Name:     prop.Name,
				Type:     typ,
				Node:     prop.KeyNode,
				Location: schema.Location.Append(compose.KeywordProperties, prop.Name),
				Owner:    schema.Node,
			}

			first, conflict, reportFirst := table.Record(sighting)
			if !conflict {
				continue
			}
			if reportFirst {
				errs = append(errs, finding(r, config, first.Node, first.Location, "property %q has type %s here but type %s at %s", first.Name, first.Type, sighting.Type, sighting.Location.ToJSONPointer()))
			}
			errs = append(errs, finding(r, config, sighting.Node, sighting.Location, "property %q has type %s here but type %s at %s", sighting.Name, sighting.Type, first.Type, first.Location.ToJSONPointer()))
		}
	}

	return errs
}

// typeString renders the type compared between sightings: a referenced object is named after its
// definition, arrays include their item type (array<string>) and unions are joined with |.
// An empty string means the type cannot be determined.
func typeString(res *compose.Resolver, s compose.Schema, depth int) string {
	if depth > maxTypeDepth || s.Node == nil || s.Node.Kind != yaml.MappingNode {
		return ""
	}

	if ref, ok := s.Reference(); ok {
		target, ok := res.Deref(s)
		if !ok {
			return ref.ComponentName()
		}
		if isEffectively(res, target, "object") {
			return ref.ComponentName()
		}
		return typeString(res, target, depth+1)
	}

	types := knownTypes(res, s)
	if len(types) == 0 {
		switch s.Kind() {
		case compose.KindArray:
			types = []string{"array"}
		case compose.KindObject:
			types = []string{"object"}
		default:
			return ""
		}
	}

	rendered := make([]string, 0, len(types))
	for _, t := range types {
		if t != "array" {
			rendered = append(rendered, t)
			continue
		}
		item := ""
		if items, ok, err := s.Items(); err == nil && ok {
			item = typeString(res, items, depth+1)
		}
		if item == "" {
			rendered = append(rendered, "array")
		} else {
			rendered = append(rendered, "array<"+item+">")
		}
	}
	return strings.Join(rendered, "|")
}
