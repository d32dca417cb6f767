package rules

import (
	"context"
	"strings"

	"github.com/speakeasy-api/openapi-schema-lint/jsonschema/compose"
	"github.com/speakeasy-api/openapi-schema-lint/linter"
	"github.com/speakeasy-api/openapi-schema-lint/openapi"
	"github.com/speakeasy-api/openapi-schema-lint/openapi/linter/consistency"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
	"golang.org/x/text/cases"
)

const RuleSchemasPropertyCaseCollision = "schemas-property-case-collision"

const (
	scopeSchema   = "schema"
	scopeDocument = "document"
)

type PropertyCaseCollisionRule struct{}

func (r *PropertyCaseCollisionRule) ID() string       { return RuleSchemasPropertyCaseCollision }
func (r *PropertyCaseCollisionRule) Category() string { return CategorySchemas }
func (r *PropertyCaseCollisionRule) Description() string {
	return "Property names that only differ by case or by `_`, `-` and space separators (such as `IMDBRating` and `IMDB_rating`) collide in generated code. The second spelling seen is reported unless either property is deprecated. With the `document` scope names are also compared across schemas."
}
func (r *PropertyCaseCollisionRule) Summary() string {
	return "Property names must not differ only by case or separators."
}
func (r *PropertyCaseCollisionRule) Link() string {
	return ruleLink(RuleSchemasPropertyCaseCollision)
}
func (r *PropertyCaseCollisionRule) DefaultSeverity() validation.Severity {
	return validation.SeverityError
}
func (r *PropertyCaseCollisionRule) Versions() []string {
	return nil
}

func (r *PropertyCaseCollisionRule) ConfigSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"scope": map[string]any{
				"type":        "string",
				"enum":        []any{scopeSchema, scopeDocument},
				"description": "Compare names within each schema or across the whole document",
			},
		},
		"additionalProperties": false,
	}
}
func (r *PropertyCaseCollisionRule) ConfigDefaults() map[string]any {
	return map[string]any{"scope": scopeSchema}
}

func (r *PropertyCaseCollisionRule) Run(ctx context.Context, docInfo *linter.DocumentInfo[*openapi.Document], config *linter.RuleConfig) []error {
	if !hasIndex(docInfo) {
		return nil
	}

	res := resolverFor(docInfo)

	var table *consistency.Table
	if stringOption(config, "scope", scopeSchema) == scopeDocument {
		table = consistency.FromContextOrNew(ctx).Table(RuleSchemasPropertyCaseCollision)
	}

	var errs []error
	for _, schema := range docInfo.Index.GetAllSchemas() {
		if err := ctx.Err(); err != nil {
			return append(errs, err)
		}
		if schema.Negated {
			continue
		}

		seen := make(map[string]compose.Property)
		for _, prop := range schema.Properties() {
			if isDeprecated(res, prop.Schema) {
				continue
			}
			canonical := canonicalName(prop.Name)
			propLoc := schema.Location.Append(compose.KeywordProperties, prop.Name)

			if first, ok := seen[canonical]; ok {
				if first.Name != prop.Name {
					errs = append(errs, finding(r, config, prop.KeyNode, propLoc, "property %q collides with property %q of the same schema", prop.Name, first.Name))
				}
				continue
			}
			seen[canonical] = prop

			if table == nil {
				continue
			}
			first, _, _ := table.Record(consistency.Sighting{
				Name:     canonical,
				Type:     prop.Name,
				Node:     prop.KeyNode,
				Location: propLoc,
				Owner:    schema.Node,
			})
			if first.Type != prop.Name && first.Owner != schema.Node {
				errs = append(errs, finding(r, config, prop.KeyNode, propLoc, "property %q collides with property %q defined at %s", prop.Name, first.Type, first.Location.ToJSONPointer()))
			}
		}
	}

	return errs
}

// canonicalName folds case and drops separators so IMDBRating, imdb_rating and IMDB-Rating compare equal.
func canonicalName(name string) string {
	folded := cases.Fold().String(name)
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ':
			return -1
		default:
			return r
		}
	}, folded)
}

// isDeprecated reports whether a property schema, or the definition it references, is deprecated.
func isDeprecated(res *compose.Resolver, s compose.Schema) bool {
	if s.Deprecated() {
		return true
	}
	resolved, ok := res.Deref(s)
	return ok && resolved.Deprecated()
}
