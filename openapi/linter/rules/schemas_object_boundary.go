package rules

import (
	"context"

	"github.com/speakeasy-api/openapi-schema-lint/jsonschema/compose"
	"github.com/speakeasy-api/openapi-schema-lint/linter"
	"github.com/speakeasy-api/openapi-schema-lint/openapi"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
)

const RuleSchemasObjectBoundary = "schemas-object-boundary"

var objectBoundaryKeywords = []string{"minProperties", "maxProperties"}

type ObjectBoundaryRule struct{}

func (r *ObjectBoundaryRule) ID() string       { return RuleSchemasObjectBoundary }
func (r *ObjectBoundaryRule) Category() string { return CategorySchemas }
func (r *ObjectBoundaryRule) Description() string {
	return "`minProperties` must not exceed `maxProperties`, and both keywords are rejected on schemas whose type is known and is not `object`."
}
func (r *ObjectBoundaryRule) Summary() string {
	return "Object property counts must be ordered and only used on object schemas."
}
func (r *ObjectBoundaryRule) Link() string {
	return ruleLink(RuleSchemasObjectBoundary)
}
func (r *ObjectBoundaryRule) DefaultSeverity() validation.Severity {
	return validation.SeverityError
}
func (r *ObjectBoundaryRule) Versions() []string {
	return nil
}

func (r *ObjectBoundaryRule) Run(ctx context.Context, docInfo *linter.DocumentInfo[*openapi.Document], config *linter.RuleConfig) []error {
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

		errs = append(errs, misplacedKeywords(r, config, res, s, objectBoundaryKeywords, "object")...)
		if err := boundaryOrder(r, config, s, "minProperties", "maxProperties"); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}
