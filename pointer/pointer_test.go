package pointer_test

import (
	"testing"

	"github.com/speakeasy-api/openapi-schema-lint/pointer"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrom(t *testing.T) {
	t.Parallel()

	t.Run("holds the value", func(t *testing.T) {
		t.Parallel()

		enabled := pointer.From(false)
		require.NotNil(t, enabled)
		assert.False(t, *enabled)

		severity := pointer.From(validation.SeverityHint)
		require.NotNil(t, severity)
		assert.Equal(t, validation.SeverityHint, *severity)
	})

	t.Run("copies the value", func(t *testing.T) {
		t.Parallel()

		ruleset := "recommended"
		p := pointer.From(ruleset)
		ruleset = "all"

		assert.Equal(t, "recommended", *p)
		assert.NotSame(t, pointer.From(ruleset), pointer.From(ruleset))
	})
}
