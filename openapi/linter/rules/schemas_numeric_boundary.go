package rules

import (
	"context"

	"github.com/speakeasy-api/openapi-schema-lint/jsonschema/compose"
	"github.com/speakeasy-api/openapi-schema-lint/linter"
	"github.com/speakeasy-api/openapi-schema-lint/openapi"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
)

const RuleSchemasNumericBoundary = "schemas-numeric-boundary"

var numericKeywords = []string{"minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum", "multipleOf"}

type NumericBoundaryRule struct{}

func (r *NumericBoundaryRule) ID() string       { return RuleSchemasNumericBoundary }
func (r *NumericBoundaryRule) Category() string { return CategorySchemas }
func (r *NumericBoundaryRule) Description() string {
	return "The lower bound of a numeric schema (`minimum` or a numeric `exclusiveMinimum`) must not exceed its upper bound (`maximum` or a numeric `exclusiveMaximum`). Numeric keywords are rejected on schemas whose type is known and is neither `number` nor `integer`."
}
func (r *NumericBoundaryRule) Summary() string {
	return "Numeric bounds must be ordered and only used on numeric schemas."
}
func (r *NumericBoundaryRule) Link() string {
	return ruleLink(RuleSchemasNumericBoundary)
}
func (r *NumericBoundaryRule) DefaultSeverity() validation.Severity {
	return validation.SeverityError
}
func (r *NumericBoundaryRule) Versions() []string {
	return nil
}

func (r *NumericBoundaryRule) Run(ctx context.Context, docInfo *linter.DocumentInfo[*openapi.Document], config *linter.RuleConfig) []error {
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

		errs = append(errs, misplacedKeywords(r, config, res, s, numericKeywords, "number", "integer")...)

		lowerKeyword, lower, hasLower := numericBound(s, "minimum", "exclusiveMinimum")
		upperKeyword, upper, hasUpper := numericBound(s, "maximum", "exclusiveMaximum")
		if hasLower && hasUpper && lower > upper {
			errs = append(errs, keywordFinding(r, config, s, lowerKeyword, "%s (%v) must not be greater than %s (%v)", lowerKeyword, lower, upperKeyword, upper))
		}
	}

	return errs
}

// numericBound returns the inclusive keyword or, failing that, the exclusive keyword when it holds a number.
// In OpenAPI 3.0 the exclusive keywords are booleans and never provide a bound.
func numericBound(s compose.Schema, inclusive, exclusive string) (string, float64, bool) {
	if v, ok := s.Number(inclusive); ok {
		return inclusive, v, true
	}
	if v, ok := s.Number(exclusive); ok {
		return exclusive, v, true
	}
	return "", 0, false
}
