package rules_test

import (
	"testing"

	"github.com/speakeasy-api/openapi-schema-lint/openapi/linter/rules"
	"github.com/stretchr/testify/assert"
)

func TestObjectBoundaryRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		yaml           string
		expectedErrors []string
	}{
		{
			name: "ordered property counts",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Labels:
      type: object
      minProperties: 1
      maxProperties: 10
      additionalProperties: {type: string}
`,
		},
		{
			name: "min greater than max",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Labels:
      type: object
      minProperties: 3
      maxProperties: 1
      additionalProperties: {type: string}
`,
			expectedErrors: []string{"[8:7] error schemas-object-boundary minProperties (3) must not be greater than maxProperties (1)"},
		},
		{
			name: "property counts on an array",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Tags:
      type: array
      items: {type: string}
      maxProperties: 2
`,
			expectedErrors: []string{"[9:7] error schemas-object-boundary maxProperties is only valid for object schemas, found type array"},
		},
		{
			name: "type inherited through allOf",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Name:
      allOf:
        - type: string
      minProperties: 1
`,
			expectedErrors: []string{"[9:7] error schemas-object-boundary minProperties is only valid for object schemas, found type string"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := runRule(t, &rules.ObjectBoundaryRule{}, tt.yaml, nil)
			if len(tt.expectedErrors) == 0 {
				assert.Empty(t, errs)
				return
			}
			assert.Equal(t, tt.expectedErrors, errorStrings(errs))
		})
	}
}
