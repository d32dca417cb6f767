package rules_test

import (
	"testing"

	"github.com/speakeasy-api/openapi-schema-lint/openapi/linter/rules"
	"github.com/stretchr/testify/assert"
)

func TestArrayBoundaryRule_ValidCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "bounded array",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Tags:
      type: array
      minItems: 0
      maxItems: 20
      items: {type: string}
`,
		},
		{
			name: "bounds inherited from an allOf member",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Tags:
      type: array
      items: {type: string}
      allOf:
        - $ref: '#/components/schemas/Bounded'
    Bounded:
      minItems: 1
      maxItems: 10
`,
		},
		{
			name: "every oneOf branch bounded",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Tags:
      type: array
      items: {type: string}
      oneOf:
        - {minItems: 1, maxItems: 5}
        - {minItems: 10, maxItems: 50}
`,
		},
		{
			name: "negated array needs no bounds",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Thing:
      type: object
      properties:
        name: {type: string}
      not:
        type: array
        items: {type: string}
`,
		},
		{
			name: "equal bounds",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Pair:
      type: array
      minItems: 2
      maxItems: 2
      items: {type: integer}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := runRule(t, &rules.ArrayBoundaryRule{}, tt.yaml, nil)
			assert.Empty(t, errs)
		})
	}
}

func TestArrayBoundaryRule_Violations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		yaml           string
		expectedErrors []string
	}{
		{
			name: "min greater than max",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Tags:
      type: array
      minItems: 5
      maxItems: 4
      items: {type: string}
`,
			expectedErrors: []string{"[8:7] error schemas-array-boundary minItems (5) must not be greater than maxItems (4)"},
		},
		{
			name: "min greater than max inside allOf",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Tags:
      allOf:
        - type: array
          minItems: 5
          maxItems: 4
          items: {type: string}
`,
			expectedErrors: []string{"[9:11] error schemas-array-boundary minItems (5) must not be greater than maxItems (4)"},
		},
		{
			name: "missing maxItems",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Tags:
      type: array
      minItems: 1
      items: {type: string}
`,
			expectedErrors: []string{"[7:7] error schemas-array-boundary array schema must define maxItems"},
		},
		{
			name: "missing both bounds",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Tags:
      type: array
      items: {type: string}
`,
			expectedErrors: []string{"[7:7] error schemas-array-boundary array schema must define minItems and maxItems"},
		},
		{
			name: "one oneOf branch unbounded",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Tags:
      type: array
      items: {type: string}
      oneOf:
        - {minItems: 1, maxItems: 5}
        - {minItems: 1}
`,
			expectedErrors: []string{"[7:7] error schemas-array-boundary array schema must define maxItems"},
		},
		{
			name: "bounds on a string schema",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Name:
      type: string
      maxItems: 4
`,
			expectedErrors: []string{"[8:7] error schemas-array-boundary maxItems is only valid for array schemas, found type string"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := runRule(t, &rules.ArrayBoundaryRule{}, tt.yaml, nil)
			assert.Equal(t, tt.expectedErrors, errorStrings(errs))
		})
	}
}
