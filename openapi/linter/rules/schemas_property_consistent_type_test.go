package rules_test

import (
	"testing"

	"github.com/speakeasy-api/openapi-schema-lint/linter"
	"github.com/speakeasy-api/openapi-schema-lint/openapi/linter/consistency"
	"github.com/speakeasy-api/openapi-schema-lint/openapi/linter/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const runningTimeConflict = `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Movie:
      type: object
      properties:
        running_time: {type: string}
    Show:
      type: object
      properties:
        running_time: {type: boolean}
`

const runningTimeSingle = `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Episode:
      type: object
      properties:
        running_time: {type: integer}
`

func TestPropertyConsistentTypeRule_ValidCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "same type everywhere",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Movie:
      type: object
      properties:
        title: {type: string}
        genres: {type: array, items: {type: string}}
    Show:
      type: object
      properties:
        title: {type: string}
        genres: {type: array, items: {type: string}}
`,
		},
		{
			name: "excluded generic names",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Error:
      type: object
      properties:
        code: {type: integer}
    Country:
      type: object
      properties:
        code: {type: string}
`,
		},
		{
			name: "deprecated properties are ignored",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Movie:
      type: object
      properties:
        rating: {type: number}
    LegacyMovie:
      type: object
      properties:
        rating:
          type: string
          deprecated: true
`,
		},
		{
			name: "references to the same definition",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Movie:
      type: object
      properties:
        director: {$ref: '#/components/schemas/Person'}
    Show:
      type: object
      properties:
        director: {$ref: '#/components/schemas/Person'}
    Person:
      type: object
      properties:
        name: {type: string}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := runRule(t, &rules.PropertyConsistentTypeRule{}, tt.yaml, nil)
			assert.Empty(t, errs)
		})
	}
}

func TestPropertyConsistentTypeRule_Violations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		yaml           string
		config         *linter.RuleConfig
		expectedErrors []string
	}{
		{
			name: "string and boolean",
			yaml: runningTimeConflict,
			expectedErrors: []string{
				`[9:9] warning schemas-property-consistent-type property "running_time" has type string here but type boolean at /components/schemas/Show/properties/running_time`,
				`[13:9] warning schemas-property-consistent-type property "running_time" has type boolean here but type string at /components/schemas/Movie/properties/running_time`,
			},
		},
		{
			name: "first sighting reported once",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    A:
      properties:
        year: {type: integer}
    B:
      properties:
        year: {type: string}
    C:
      properties:
        year: {type: number}
`,
			expectedErrors: []string{
				`[8:9] warning schemas-property-consistent-type property "year" has type integer here but type string at /components/schemas/B/properties/year`,
				`[11:9] warning schemas-property-consistent-type property "year" has type string here but type integer at /components/schemas/A/properties/year`,
				`[14:9] warning schemas-property-consistent-type property "year" has type number here but type integer at /components/schemas/A/properties/year`,
			},
		},
		{
			name: "array item types differ",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Movie:
      properties:
        ids: {type: array, items: {type: string}}
    Show:
      properties:
        ids: {type: array, items: {type: integer}}
`,
			expectedErrors: []string{
				`[8:9] warning schemas-property-consistent-type property "ids" has type array<string> here but type array<integer> at /components/schemas/Show/properties/ids`,
				`[11:9] warning schemas-property-consistent-type property "ids" has type array<integer> here but type array<string> at /components/schemas/Movie/properties/ids`,
			},
		},
		{
			name: "reference and primitive",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Movie:
      properties:
        director: {$ref: '#/components/schemas/Person'}
    Show:
      properties:
        director: {type: string}
    Person:
      type: object
      properties:
        name: {type: string}
`,
			expectedErrors: []string{
				`[8:9] warning schemas-property-consistent-type property "director" has type Person here but type string at /components/schemas/Show/properties/director`,
				`[11:9] warning schemas-property-consistent-type property "director" has type string here but type Person at /components/schemas/Movie/properties/director`,
			},
		},
		{
			name: "excluded names replaced by options",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
components:
  schemas:
    Error:
      properties:
        code: {type: integer}
    Country:
      properties:
        code: {type: string}
`,
			config: &linter.RuleConfig{Options: map[string]any{"excludedNames": []any{"value"}}},
			expectedErrors: []string{
				`[8:9] warning schemas-property-consistent-type property "code" has type integer here but type string at /components/schemas/Country/properties/code`,
				`[11:9] warning schemas-property-consistent-type property "code" has type string here but type integer at /components/schemas/Error/properties/code`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := runRule(t, &rules.PropertyConsistentTypeRule{}, tt.yaml, tt.config)
			assert.Equal(t, tt.expectedErrors, errorStrings(errs))
		})
	}
}

func TestPropertyConsistentTypeRule_FreshRunsDoNotShareState(t *testing.T) {
	t.Parallel()

	rule := &rules.PropertyConsistentTypeRule{}

	first := runRuleWithContext(t, consistency.WithContext(t.Context(), consistency.New()), rule, runningTimeConflict, nil)
	require.Len(t, first, 2)
	for _, err := range first {
		assert.Contains(t, err.Error(), "running_time")
	}

	second := runRuleWithContext(t, consistency.WithContext(t.Context(), consistency.New()), rule, runningTimeSingle, nil)
	assert.Empty(t, second, "a fresh run must not see sightings of a previous document")

	third := runRule(t, rule, runningTimeSingle, nil)
	assert.Empty(t, third, "runs without a shared table start empty")
}

func TestPropertyConsistentTypeRule_SharedContextCarriesSightings(t *testing.T) {
	t.Parallel()

	rule := &rules.PropertyConsistentTypeRule{}
	ctx := consistency.WithContext(t.Context(), consistency.New())

	require.Len(t, runRuleWithContext(t, ctx, rule, runningTimeConflict, nil), 2)

	errs := runRuleWithContext(t, ctx, rule, runningTimeSingle, nil)
	require.Len(t, errs, 1, "the first sighting was already reported")
	assert.Contains(t, errs[0].Error(), "has type integer here but type string")
}
