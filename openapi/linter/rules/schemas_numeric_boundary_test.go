package rules_test

import (
	"testing"

	"github.com/speakeasy-api/openapi-schema-lint/openapi/linter/rules"
	"github.com/stretchr/testify/assert"
)

func TestNumericBoundaryRule_ValidCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "ordered bounds",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Rating:
      type: number
      minimum: 0
      maximum: 5
      multipleOf: 0.5
`,
		},
		{
			name: "boolean exclusive keywords of OpenAPI 3.0",
			yaml: `
openapi: 3.0.3
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Year:
      type: integer
      minimum: 1900
      exclusiveMinimum: true
      maximum: 2100
      exclusiveMaximum: false
`,
		},
		{
			name: "untyped schema with numeric keywords",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Loose:
      minimum: 1
`,
		},
		{
			name: "integer or null",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Count:
      type: [integer, 'null']
      minimum: 0
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := runRule(t, &rules.NumericBoundaryRule{}, tt.yaml, nil)
			assert.Empty(t, errs)
		})
	}
}

func TestNumericBoundaryRule_Violations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		yaml           string
		expectedErrors []string
	}{
		{
			name: "minimum greater than maximum",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Rating:
      type: integer
      minimum: 10
      maximum: 1
`,
			expectedErrors: []string{"[8:7] error schemas-numeric-boundary minimum (10) must not be greater than maximum (1)"},
		},
		{
			name: "numeric exclusive bounds inverted",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Rating:
      type: number
      exclusiveMinimum: 5
      exclusiveMaximum: 2.5
`,
			expectedErrors: []string{"[8:7] error schemas-numeric-boundary exclusiveMinimum (5) must not be greater than exclusiveMaximum (2.5)"},
		},
		{
			name: "numeric keywords on a string",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Code:
      type: [string, 'null']
      minimum: 1
      multipleOf: 2
`,
			expectedErrors: []string{
				"[8:7] error schemas-numeric-boundary minimum is only valid for number or integer schemas, found type string",
				"[9:7] error schemas-numeric-boundary multipleOf is only valid for number or integer schemas, found type string",
			},
		},
		{
			name: "inverted bounds inside a property",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Movie:
      type: object
      properties:
        year:
          type: integer
          minimum: 2100
          maximum: 1900
`,
			expectedErrors: []string{"[11:11] error schemas-numeric-boundary minimum (2100) must not be greater than maximum (1900)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := runRule(t, &rules.NumericBoundaryRule{}, tt.yaml, nil)
			assert.Equal(t, tt.expectedErrors, errorStrings(errs))
		})
	}
}
