package rules_test

import (
	"strings"
	"testing"

	"github.com/speakeasy-api/openapi-schema-lint/linter"
	"github.com/speakeasy-api/openapi-schema-lint/openapi/linter/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllRules_MetadataPopulated(t *testing.T) {
	t.Parallel()

	categories := []string{rules.CategorySchemas, rules.CategoryOperations, rules.CategorySecurity, rules.CategoryStyle}

	seen := make(map[string]bool)
	for _, rule := range rules.All() {
		require.False(t, seen[rule.ID()], "duplicate rule %s", rule.ID())
		seen[rule.ID()] = true

		t.Run(rule.ID(), func(t *testing.T) {
			t.Parallel()

			assert.True(t, strings.HasPrefix(rule.ID(), rule.Category()+"-"), "rule IDs are prefixed with their category")
			assert.Contains(t, categories, rule.Category())
			assert.NotEmpty(t, rule.Description(), "rule description should not be empty")
			assert.NotEmpty(t, rule.Summary(), "rule summary should not be empty")
			assert.True(t, strings.HasSuffix(rule.Link(), "#"+rule.ID()), "rule link should point at the rule's documentation")

			if documented, ok := rule.(linter.DocumentedRule); ok {
				assert.NotEmpty(t, documented.GoodExample())
				assert.NotEmpty(t, documented.BadExample())
				assert.NotEmpty(t, documented.Rationale())
			}

			if configurable, ok := rule.(linter.ConfigurableRule); ok {
				schema := configurable.ConfigSchema()
				require.NotNil(t, schema)
				properties, ok := schema["properties"].(map[string]any)
				require.True(t, ok, "config schema should describe its properties")
				for key := range configurable.ConfigDefaults() {
					assert.Contains(t, properties, key, "defaults should only hold described options")
				}
			}
		})
	}

	assert.Len(t, seen, 15)
}

func TestAllRules_NilDocument(t *testing.T) {
	t.Parallel()

	for _, rule := range rules.All() {
		assert.Empty(t, rule.Run(t.Context(), nil, &linter.RuleConfig{}), rule.ID())
	}
}
