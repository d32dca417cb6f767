package rules_test

import (
	"testing"

	"github.com/speakeasy-api/openapi-schema-lint/openapi/linter/rules"
	"github.com/stretchr/testify/assert"
)

func TestWellDefinedDictionariesRule_ValidCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "model",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Movie:
      type: object
      properties:
        title: {type: string}
      additionalProperties: false
`,
		},
		{
			name: "typed dictionary",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Ratings:
      type: object
      additionalProperties:
        type: number
`,
		},
		{
			name: "dictionary of references",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    MoviesById:
      type: object
      additionalProperties:
        $ref: '#/components/schemas/Movie'
    Movie:
      type: object
      properties:
        title: {type: string}
`,
		},
		{
			name: "nested typed dictionaries",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Matrix:
      type: object
      additionalProperties:
        type: object
        additionalProperties:
          type: integer
`,
		},
		{
			name: "composed dictionaries",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Labels:
      oneOf:
        - type: object
          additionalProperties: {type: string}
        - type: object
          additionalProperties: {type: integer}
`,
		},
		{
			name: "composed model closed to extra properties",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Movie:
      additionalProperties: false
      allOf:
        - $ref: '#/components/schemas/Base'
    Base:
      type: object
      properties:
        id: {type: string}
`,
		},
		{
			name: "pattern properties",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Headers:
      type: object
      patternProperties:
        '^x-': {type: string}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := runRule(t, &rules.WellDefinedDictionariesRule{}, tt.yaml, nil)
			assert.Empty(t, errs)
		})
	}
}

func TestWellDefinedDictionariesRule_Violations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		yaml           string
		expectedErrors []string
	}{
		{
			name: "hybrid",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Ratings:
      type: object
      properties:
        average: {type: number}
      additionalProperties:
        type: number
`,
			expectedErrors: []string{"[7:7] error schemas-well-defined-dictionaries schema must be a model or a dictionary, not both"},
		},
		{
			name: "dictionary of anything",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Labels:
      type: object
      additionalProperties: true
`,
			expectedErrors: []string{"[8:7] error schemas-well-defined-dictionaries dictionary values must be described by a schema with a concrete type"},
		},
		{
			name: "dictionary of empty schemas",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Labels:
      type: object
      additionalProperties: {}
`,
			expectedErrors: []string{"[8:7] error schemas-well-defined-dictionaries dictionary values must be described by a schema with a concrete type"},
		},
		{
			name: "nested untyped dictionary",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Matrix:
      type: object
      additionalProperties:
        type: object
        additionalProperties: true
`,
			expectedErrors: []string{"[10:9] error schemas-well-defined-dictionaries dictionary values must be described by a schema with a concrete type"},
		},
		{
			name: "composed dictionary branch untyped",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Labels:
      anyOf:
        - type: object
          additionalProperties: {type: string}
        - type: object
          additionalProperties: true
`,
			expectedErrors: []string{"[11:11] error schemas-well-defined-dictionaries dictionary values must be described by a schema with a concrete type"},
		},
		{
			name: "hybrid with allOf",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Hybrid:
      type: object
      properties:
        name: {type: string}
      additionalProperties: true
      allOf:
        - $ref: '#/components/schemas/Base'
    Base:
      type: object
      properties:
        id: {type: string}
`,
			expectedErrors: []string{"[7:7] error schemas-well-defined-dictionaries schema must be a model or a dictionary, not both"},
		},
		{
			name: "neither model nor dictionary",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Blob:
      type: object
`,
			expectedErrors: []string{"[7:7] error schemas-well-defined-dictionaries object schema must be a model or a dictionary"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := runRule(t, &rules.WellDefinedDictionariesRule{}, tt.yaml, nil)
			assert.Equal(t, tt.expectedErrors, errorStrings(errs))
		})
	}
}
