package consistency_test

import (
	"testing"

	"github.com/speakeasy-api/openapi-schema-lint/openapi/linter/consistency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Record(t *testing.T) {
	t.Parallel()

	table := consistency.NewTable()

	first, conflict, reportFirst := table.Record(consistency.Sighting{Name: "running_time", Type: "string"})
	assert.Equal(t, "string", first.Type)
	assert.False(t, conflict)
	assert.False(t, reportFirst)

	_, conflict, _ = table.Record(consistency.Sighting{Name: "running_time", Type: "string"})
	assert.False(t, conflict, "same type is consistent")

	first, conflict, reportFirst = table.Record(consistency.Sighting{Name: "running_time", Type: "boolean"})
	assert.Equal(t, "string", first.Type)
	assert.True(t, conflict)
	assert.True(t, reportFirst)

	_, conflict, reportFirst = table.Record(consistency.Sighting{Name: "running_time", Type: "integer"})
	assert.True(t, conflict)
	assert.False(t, reportFirst, "the first sighting is only reported once")
}

func TestContext_Tables(t *testing.T) {
	t.Parallel()

	c := consistency.New()
	assert.Same(t, c.Table("types"), c.Table("types"))
	assert.NotSame(t, c.Table("types"), c.Table("names"))

	c.Table("types").Record(consistency.Sighting{Name: "a", Type: "string"})

	_, conflict, _ := consistency.New().Table("types").Record(consistency.Sighting{Name: "a", Type: "boolean"})
	assert.False(t, conflict, "a new context starts without sightings")
}

func TestContext_CarriedByContext(t *testing.T) {
	t.Parallel()

	_, ok := consistency.FromContext(t.Context())
	assert.False(t, ok)

	c := consistency.New()
	ctx := consistency.WithContext(t.Context(), c)

	got, ok := consistency.FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, c, got)
	assert.Same(t, c, consistency.FromContextOrNew(ctx))
	assert.NotSame(t, c, consistency.FromContextOrNew(t.Context()))
}
