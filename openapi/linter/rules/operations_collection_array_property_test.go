package rules_test

import (
	"testing"

	"github.com/speakeasy-api/openapi-schema-lint/openapi/linter/rules"
	"github.com/stretchr/testify/assert"
)

func TestCollectionArrayPropertyRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		yaml           string
		expectedErrors []string
	}{
		{
			name: "array named after the collection",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
paths:
  /v1/movies:
    get:
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/MovieList'
components:
  schemas:
    MovieList:
      type: object
      properties:
        movies:
          type: array
          items: {type: string}
        total_count: {type: integer}
`,
		},
		{
			name: "item paths and responses without arrays are skipped",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
paths:
  /movies/{id}:
    get:
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                type: object
                properties:
                  genres: {type: array, items: {type: string}}
  /stats:
    get:
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                type: object
                properties:
                  count: {type: integer}
`,
		},
		{
			name: "array property with another name",
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
                type: object
                properties:
                  items: {type: array, items: {type: string}}
                  total: {type: integer}
`,
			expectedErrors: []string{`[12:15] warning operations-collection-array-property response of GET /movies must name its array property "movies", found "items"`},
		},
		{
			name: "array inherited through allOf",
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
            application/vnd.api+json:
              schema:
                allOf:
                  - $ref: '#/components/schemas/Page'
                  - type: object
                    properties:
                      results: {type: array, items: {type: string}}
components:
  schemas:
    Page:
      type: object
      properties:
        total_count: {type: integer}
`,
			expectedErrors: []string{`[12:15] warning operations-collection-array-property response of GET /movies must name its array property "movies", found "results"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := runRule(t, &rules.CollectionArrayPropertyRule{}, tt.yaml, nil)
			if len(tt.expectedErrors) == 0 {
				assert.Empty(t, errs)
				return
			}
			assert.Equal(t, tt.expectedErrors, errorStrings(errs))
		})
	}
}
