package rules_test

import (
	"testing"

	"github.com/speakeasy-api/openapi-schema-lint/openapi/linter/rules"
	"github.com/stretchr/testify/assert"
)

func TestRequiredPropertyDefinedRule_ValidCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "required properties defined directly",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Movie:
      type: object
      required: [title]
      properties:
        title: {type: string}
`,
		},
		{
			name: "allOf members define the union",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Merged:
      required: [a, b, c]
      allOf:
        - $ref: '#/components/schemas/A'
        - $ref: '#/components/schemas/B'
        - properties: {c: {type: string}}
    A:
      properties: {a: {type: string}}
    B:
      properties: {b: {type: string}}
`,
		},
		{
			name: "every oneOf branch defines the property",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Pet:
      required: [name]
      oneOf:
        - properties: {name: {type: string}}
        - properties: {name: {type: string}, age: {type: integer}}
`,
		},
		{
			name: "required on an inline member",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Movie:
      properties:
        title: {type: string}
      allOf:
        - required: [title]
`,
		},
		{
			name: "not schemas are not checked",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Movie:
      properties:
        title: {type: string}
      not:
        required: [secret]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := runRule(t, &rules.RequiredPropertyDefinedRule{}, tt.yaml, nil)
			assert.Empty(t, errs)
		})
	}
}

func TestRequiredPropertyDefinedRule_Violations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		yaml           string
		expectedErrors []string
	}{
		{
			name: "undefined required property",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Movie:
      type: object
      required:
        - title
        - year
      properties:
        title: {type: string}
`,
			expectedErrors: []string{`[10:11] error schemas-required-property-defined required property "year" is not defined`},
		},
		{
			name: "missing from the allOf union",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Merged:
      required: [a, b, c, d]
      allOf:
        - $ref: '#/components/schemas/A'
        - $ref: '#/components/schemas/B'
        - properties: {c: {type: string}}
    A:
      properties: {a: {type: string}}
    B:
      properties: {b: {type: string}}
`,
			expectedErrors: []string{`[7:27] error schemas-required-property-defined required property "d" is not defined`},
		},
		{
			name: "one oneOf branch lacks the property",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Pet:
      required: [name]
      oneOf:
        - properties: {name: {type: string}}
        - properties: {age: {type: integer}}
`,
			expectedErrors: []string{`[7:18] error schemas-required-property-defined required property "name" is not defined`},
		},
		{
			name: "inline member requires an undefined property",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Movie:
      properties:
        title: {type: string}
      allOf:
        - required: [title, year]
`,
			expectedErrors: []string{`[10:29] error schemas-required-property-defined required property "year" is not defined`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := runRule(t, &rules.RequiredPropertyDefinedRule{}, tt.yaml, nil)
			assert.Equal(t, tt.expectedErrors, errorStrings(errs))
		})
	}
}
