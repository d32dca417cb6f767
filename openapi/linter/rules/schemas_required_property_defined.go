package rules

import (
	"context"

	"github.com/speakeasy-api/openapi-schema-lint/jsonschema/compose"
	"github.com/speakeasy-api/openapi-schema-lint/linter"
	"github.com/speakeasy-api/openapi-schema-lint/openapi"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
	"go.yaml.in/yaml/v4"
)

const RuleSchemasRequiredPropertyDefined = "schemas-required-property-defined"

type RequiredPropertyDefinedRule struct{}

func (r *RequiredPropertyDefinedRule) ID() string       { return RuleSchemasRequiredPropertyDefined }
func (r *RequiredPropertyDefinedRule) Category() string { return CategorySchemas }
func (r *RequiredPropertyDefinedRule) Description() string {
	return "Every name listed in `required` must be defined as a property of the schema's composition. Any `allOf` member may define it, every `oneOf`/`anyOf` branch that applies must define it and `not` schemas are never consulted. Required lists of inline composition members are checked against the schema they are part of."
}
func (r *RequiredPropertyDefinedRule) Summary() string {
	return "Required properties must be defined."
}
func (r *RequiredPropertyDefinedRule) Link() string {
	return ruleLink(RuleSchemasRequiredPropertyDefined)
}
func (r *RequiredPropertyDefinedRule) DefaultSeverity() validation.Severity {
	return validation.SeverityError
}
func (r *RequiredPropertyDefinedRule) Versions() []string {
	return nil
}

func (r *RequiredPropertyDefinedRule) Run(ctx context.Context, docInfo *linter.DocumentInfo[*openapi.Document], config *linter.RuleConfig) []error {
	if !hasIndex(docInfo) {
		return nil
	}

	res := resolverFor(docInfo)

	var errs []error
	for _, schema := range docInfo.Index.GetAllSchemas() {
		if err := ctx.Err(); err != nil {
			return append(errs, err)
		}
		// inline members are checked as part of the schema that composes them
		if schema.Negated || isInlineMember(schema.Location) {
			continue
		}

		for _, carrier := range requiredCarriers(schema.Schema, make(map[*yaml.Node]struct{})) {
			for _, required := range carrier.Required() {
				ok, err := res.SatisfiesWithin(schema.Schema, carrier.Node, compose.AllBranches, compose.DefinesProperty(required.Name))
				if err != nil {
					errs = append(errs, err)
					break
				}
				if !ok {
					errs = append(errs, finding(r, config, required.Node, required.Location, "required property %q is not defined", required.Name))
				}
			}
		}
	}

	return errs
}

// requiredCarriers returns s and its inline allOf, oneOf and anyOf members, recursively.
// Referenced members are checked on their own.
func requiredCarriers(s compose.Schema, seen map[*yaml.Node]struct{}) []compose.Schema {
	if _, ok := seen[s.Node]; ok {
		return nil
	}
	seen[s.Node] = struct{}{}

	carriers := []compose.Schema{s}
	for _, keyword := range []string{compose.KeywordAllOf, compose.KeywordOneOf, compose.KeywordAnyOf} {
		for _, member := range s.Members(keyword) {
			if member.Kind() == compose.KindUnknown || member.Kind() == compose.KindReference {
				continue
			}
			carriers = append(carriers, requiredCarriers(member, seen)...)
		}
	}
	return carriers
}
