package rules_test

import (
	"testing"

	"github.com/speakeasy-api/openapi-schema-lint/errors"
	"github.com/speakeasy-api/openapi-schema-lint/jsonschema/compose"
	"github.com/speakeasy-api/openapi-schema-lint/openapi/linter/rules"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayItemsRule_ValidCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "array with items",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Tags:
      type: array
      items: {type: string}
`,
		},
		{
			name: "items inherited from an allOf member",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Tags:
      type: array
      allOf:
        - items: {type: string}
`,
		},
		{
			name: "boolean items",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Anything:
      type: array
      items: true
`,
		},
		{
			name: "negated array",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    NotAList:
      type: object
      properties:
        a: {type: string}
      not:
        type: array
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := runRule(t, &rules.ArrayItemsRule{}, tt.yaml, nil)
			assert.Empty(t, errs)
		})
	}
}

func TestArrayItemsRule_Violations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		yaml          string
		expectedError string
		expectedPath  string
	}{
		{
			name: "top level array",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Tags:
      type: array
      minItems: 1
      maxItems: 5
`,
			expectedError: "[7:7] error schemas-array-items array schema must specify items",
			expectedPath:  "components.schemas.Tags",
		},
		{
			name: "array nested in a property",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Movie:
      type: object
      properties:
        genres:
          type: array
`,
			expectedError: "[10:11] error schemas-array-items array schema must specify items",
			expectedPath:  "components.schemas.Movie.properties.genres",
		},
		{
			name: "array of arrays",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Matrix:
      type: array
      items:
        type: array
`,
			expectedError: "[9:9] error schemas-array-items array schema must specify items",
			expectedPath:  "components.schemas.Matrix.items",
		},
		{
			name: "array in a response",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
paths:
  /movies:
    get:
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                type: array
`,
			expectedError: "[13:17] error schemas-array-items array schema must specify items",
			expectedPath:  "paths./movies.get.responses.200.content.application/json.schema",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := runRule(t, &rules.ArrayItemsRule{}, tt.yaml, nil)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.expectedError, errs[0].Error())

			var vErr *validation.Error
			require.True(t, errors.As(errs[0], &vErr))
			assert.Equal(t, tt.expectedPath, vErr.Path.String())
		})
	}
}

func TestArrayItemsRule_MalformedItems(t *testing.T) {
	t.Parallel()

	errs := runRule(t, &rules.ArrayItemsRule{}, `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Tags:
      type: array
      items: string
`, nil)

	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], compose.ErrMalformedSchema)

	var vErr *validation.Error
	assert.False(t, errors.As(errs[0], &vErr), "malformed schemas are not findings")
}
