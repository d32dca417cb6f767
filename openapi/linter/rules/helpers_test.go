package rules_test

import (
	"context"
	"strings"
	"testing"

	"github.com/speakeasy-api/openapi-schema-lint/linter"
	"github.com/speakeasy-api/openapi-schema-lint/openapi"
	"github.com/stretchr/testify/require"
)

// runRule parses yml, indexes it and runs rule over it.
func runRule(t *testing.T, rule linter.RuleRunner[*openapi.Document], yml string, config *linter.RuleConfig) []error {
	t.Helper()
	return runRuleWithContext(t, t.Context(), rule, yml, config)
}

func runRuleWithContext(t *testing.T, ctx context.Context, rule linter.RuleRunner[*openapi.Document], yml string, config *linter.RuleConfig) []error {
	t.Helper()

	doc, _, err := openapi.Unmarshal(ctx, strings.NewReader(yml), openapi.WithSkipValidation())
	require.NoError(t, err)

	idx := openapi.BuildIndex(ctx, doc)
	docInfo := linter.NewDocumentInfoWithIndex(doc, "test.yaml", idx)

	if config == nil {
		config = &linter.RuleConfig{}
	}
	return rule.Run(ctx, docInfo, config)
}

func errorStrings(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}
