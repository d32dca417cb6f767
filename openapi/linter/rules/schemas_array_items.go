package rules

import (
	"context"

	"github.com/speakeasy-api/openapi-schema-lint/jsonschema/compose"
	"github.com/speakeasy-api/openapi-schema-lint/linter"
	"github.com/speakeasy-api/openapi-schema-lint/openapi"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
)

const RuleSchemasArrayItems = "schemas-array-items"

type ArrayItemsRule struct{}

func (r *ArrayItemsRule) ID() string       { return RuleSchemasArrayItems }
func (r *ArrayItemsRule) Category() string { return CategorySchemas }
func (r *ArrayItemsRule) Description() string {
	return "Every array schema, including arrays nested in `items`, `additionalProperties` and composition branches, must describe its elements with an `items` schema. An `items` keyword that holds something other than a schema makes the document unusable and stops the rule."
}
func (r *ArrayItemsRule) Summary() string {
	return "Array schemas must define `items`."
}
func (r *ArrayItemsRule) Link() string {
	return ruleLink(RuleSchemasArrayItems)
}
func (r *ArrayItemsRule) DefaultSeverity() validation.Severity {
	return validation.SeverityError
}
func (r *ArrayItemsRule) Versions() []string {
	return nil
}

func (r *ArrayItemsRule) Run(ctx context.Context, docInfo *linter.DocumentInfo[*openapi.Document], config *linter.RuleConfig) []error {
	if !hasIndex(docInfo) {
		return nil
	}

	res := resolverFor(docInfo)

	var errs []error
	for _, schema := range docInfo.Index.GetAllSchemas() {
		if err := ctx.Err(); err != nil {
			return append(errs, err)
		}

		s := schema.Schema
		if s.Kind() == compose.KindUnknown {
			continue
		}

		// a malformed items keyword is a tool failure, not a finding
		if _, _, err := s.Items(); err != nil {
			errs = append(errs, err)
			continue
		}

		if schema.Negated || !isEffectively(res, s, "array") {
			continue
		}

		ok, err := res.DefinesKeyword(s, compose.KeywordItems, compose.AllBranches)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			errs = append(errs, finding(r, config, s.Node, s.Location, "array schema must specify items"))
		}
	}

	return errs
}
