package rules

import (
	"context"

	"github.com/speakeasy-api/openapi-schema-lint/jsonschema/compose"
	"github.com/speakeasy-api/openapi-schema-lint/linter"
	"github.com/speakeasy-api/openapi-schema-lint/openapi"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
	"github.com/speakeasy-api/openapi-schema-lint/yml"
	"go.yaml.in/yaml/v4"
)

const RuleSchemasWellDefinedDictionaries = "schemas-well-defined-dictionaries"

type WellDefinedDictionariesRule struct{}

func (r *WellDefinedDictionariesRule) ID() string       { return RuleSchemasWellDefinedDictionaries }
func (r *WellDefinedDictionariesRule) Category() string { return CategorySchemas }
func (r *WellDefinedDictionariesRule) Description() string {
	return "An object schema must either be a model, defining `properties`, or a dictionary, defining `additionalProperties` as a schema with a concrete type. Schemas mixing both, dictionaries of untyped values and objects defining neither are reported. Nested dictionaries and composed dictionaries are checked the same way."
}
func (r *WellDefinedDictionariesRule) Summary() string {
	return "Object schemas must be either a model or a well-typed dictionary."
}
func (r *WellDefinedDictionariesRule) Link() string {
	return ruleLink(RuleSchemasWellDefinedDictionaries)
}
func (r *WellDefinedDictionariesRule) DefaultSeverity() validation.Severity {
	return validation.SeverityError
}
func (r *WellDefinedDictionariesRule) Versions() []string {
	return nil
}

func (r *WellDefinedDictionariesRule) GoodExample() string {
	return `components:
  schemas:
    Ratings:
      type: object
      additionalProperties:
        type: number`
}
func (r *WellDefinedDictionariesRule) BadExample() string {
	return `components:
  schemas:
    Ratings:
      type: object
      properties:
        average:
          type: number
      additionalProperties: true`
}
func (r *WellDefinedDictionariesRule) Rationale() string {
	return "Code generators map models to structs and dictionaries to maps. A schema that is both, or a map of untyped values, has no faithful representation."
}

func (r *WellDefinedDictionariesRule) Run(ctx context.Context, docInfo *linter.DocumentInfo[*openapi.Document], config *linter.RuleConfig) []error {
	if !hasIndex(docInfo) {
		return nil
	}

	var errs []error
	for _, schema := range docInfo.Index.GetAllSchemas() {
		if err := ctx.Err(); err != nil {
			return append(errs, err)
		}

		if schema.Negated {
			continue
		}
		switch schema.Kind() {
		case compose.KindObject:
		case compose.KindComposition:
			// members are indexed on their own; only keywords on the composite itself are judged here
			if !schema.Has(compose.KeywordProperties) && !schema.Has(compose.KeywordAdditionalProperties) {
				continue
			}
		default:
			continue
		}
		if err := r.check(schema.Schema, config); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

func (r *WellDefinedDictionariesRule) check(s compose.Schema, config *linter.RuleConfig) error {
	isModel := len(s.Properties()) > 0
	ap, hasAP := s.AdditionalProperties()
	isDictionary := hasAP && !isFalse(ap.Node)

	switch {
	case isModel && isDictionary:
		return finding(r, config, s.Node, s.Location, "schema must be a model or a dictionary, not both")
	case isModel:
		return nil
	case isDictionary:
		if !hasConcreteType(ap) {
			return keywordFinding(r, config, s, compose.KeywordAdditionalProperties, "dictionary values must be described by a schema with a concrete type")
		}
		return nil
	case s.Has(compose.KeywordPatternProperties), s.Kind() == compose.KindComposition:
		return nil
	default:
		return finding(r, config, s.Node, s.Location, "object schema must be a model or a dictionary")
	}
}

func isFalse(node *yaml.Node) bool {
	v, ok := yml.BoolValue(node)
	return ok && !v
}

// hasConcreteType reports whether a dictionary value schema says what its values are: a type, a reference or a composition.
func hasConcreteType(s compose.Schema) bool {
	if s.Node == nil || s.Node.Kind != yaml.MappingNode {
		return false
	}
	switch s.Kind() {
	case compose.KindReference, compose.KindComposition:
		return true
	case compose.KindUnknown:
		return false
	}
	return len(s.Types()) > 0 || s.HasEnum()
}
