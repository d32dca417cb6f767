package rules

import (
	"context"

	"github.com/speakeasy-api/openapi-schema-lint/jsonschema/compose"
	"github.com/speakeasy-api/openapi-schema-lint/linter"
	"github.com/speakeasy-api/openapi-schema-lint/openapi"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
)

const RuleSchemasArrayBoundary = "schemas-array-boundary"

var arrayBoundaryKeywords = []string{"minItems", "maxItems"}

type ArrayBoundaryRule struct{}

func (r *ArrayBoundaryRule) ID() string       { return RuleSchemasArrayBoundary }
func (r *ArrayBoundaryRule) Category() string { return CategorySchemas }
func (r *ArrayBoundaryRule) Description() string {
	return "Array schemas must bound their size with `minItems` and `maxItems`. The keywords may come from any `allOf` member but every `oneOf`/`anyOf` branch must provide them. `minItems` and `maxItems` are rejected on schemas of another type and `minItems` must not exceed `maxItems`."
}
func (r *ArrayBoundaryRule) Summary() string {
	return "Array schemas must define consistent `minItems` and `maxItems`."
}
func (r *ArrayBoundaryRule) Link() string {
	return ruleLink(RuleSchemasArrayBoundary)
}
func (r *ArrayBoundaryRule) DefaultSeverity() validation.Severity {
	return validation.SeverityError
}
func (r *ArrayBoundaryRule) Versions() []string {
	return nil
}

func (r *ArrayBoundaryRule) GoodExample() string {
	return `components:
  schemas:
    Tags:
      type: array
      minItems: 0
      maxItems: 20
      items:
        type: string`
}
func (r *ArrayBoundaryRule) BadExample() string {
	return `components:
  schemas:
    Tags:
      type: array
      minItems: 5
      maxItems: 4
      items:
        type: string`
}
func (r *ArrayBoundaryRule) Rationale() string {
	return "Unbounded arrays let clients send or receive arbitrarily large payloads and an inverted range can never be satisfied."
}

func (r *ArrayBoundaryRule) Run(ctx context.Context, docInfo *linter.DocumentInfo[*openapi.Document], config *linter.RuleConfig) []error {
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

		errs = append(errs, misplacedKeywords(r, config, res, s, arrayBoundaryKeywords, "array")...)
		if err := boundaryOrder(r, config, s, "minItems", "maxItems"); err != nil {
			errs = append(errs, err)
		}

		if schema.Negated || !isEffectively(res, s, "array") {
			continue
		}

		missing, err := missingKeywords(res, s, arrayBoundaryKeywords...)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(missing) > 0 {
			errs = append(errs, finding(r, config, s.Node, s.Location, "array schema must define %s", joinWords(missing)))
		}
	}

	return errs
}
