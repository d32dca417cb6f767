package rules

import (
	"context"
	"slices"

	"github.com/speakeasy-api/openapi-schema-lint/linter"
	"github.com/speakeasy-api/openapi-schema-lint/openapi"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
)

const RuleSchemasStringBoundary = "schemas-string-boundary"

var (
	stringBoundaryKeywords = []string{"pattern", "minLength", "maxLength"}
	defaultExemptFormats   = []string{"binary", "byte", "date", "date-time", "url"}
)

type StringBoundaryRule struct{}

func (r *StringBoundaryRule) ID() string       { return RuleSchemasStringBoundary }
func (r *StringBoundaryRule) Category() string { return CategorySchemas }
func (r *StringBoundaryRule) Description() string {
	return "String schemas must constrain their values with `pattern`, `minLength` and `maxLength`. Schemas restricted by `enum` or `const`, schemas below `not` and schemas using an exempt `format` are skipped. Each composition branch is checked on its own. `minLength` must not exceed `maxLength`."
}
func (r *StringBoundaryRule) Summary() string {
	return "String schemas must define `pattern`, `minLength` and `maxLength`."
}
func (r *StringBoundaryRule) Link() string {
	return ruleLink(RuleSchemasStringBoundary)
}
func (r *StringBoundaryRule) DefaultSeverity() validation.Severity {
	return validation.SeverityWarning
}
func (r *StringBoundaryRule) Versions() []string {
	return nil
}

func (r *StringBoundaryRule) ConfigSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"exemptFormats": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Formats that already constrain a string and need no boundaries",
			},
		},
		"additionalProperties": false,
	}
}
func (r *StringBoundaryRule) ConfigDefaults() map[string]any {
	return map[string]any{
		"exemptFormats": slices.Clone(defaultExemptFormats),
	}
}

func (r *StringBoundaryRule) Run(ctx context.Context, docInfo *linter.DocumentInfo[*openapi.Document], config *linter.RuleConfig) []error {
	if !hasIndex(docInfo) {
		return nil
	}

	res := resolverFor(docInfo)
	exempt := toSet(stringListOption(config, "exemptFormats", defaultExemptFormats))

	var errs []error
	for _, schema := range docInfo.Index.GetAllSchemas() {
		if err := ctx.Err(); err != nil {
			return append(errs, err)
		}

		s := schema.Schema
		if !s.HasType("string") {
			continue
		}

		if err := boundaryOrder(r, config, s, "minLength", "maxLength"); err != nil {
			errs = append(errs, err)
		}

		if schema.Negated || s.HasEnum() {
			continue
		}
		if _, ok := exempt[s.Format()]; ok && s.Format() != "" {
			continue
		}

		missing, err := missingKeywords(res, s, stringBoundaryKeywords...)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(missing) > 0 {
			errs = append(errs, finding(r, config, s.Node, s.Location, "string schema must define %s", joinWords(missing)))
		}
	}

	return errs
}
