package jsonpointer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func TestJSONPointer_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pointer JSONPointer
		wantErr bool
	}{
		{name: "root", pointer: "/"},
		{name: "simple path", pointer: "/components/schemas/Movie"},
		{name: "escaped path", pointer: "/paths/~1v1~1movies/get"},
		{name: "empty", pointer: "", wantErr: true},
		{name: "missing leading slash", pointer: "components", wantErr: true},
		{name: "empty part", pointer: "/components//schemas", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.pointer.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPartsToJSONPointer_RoundTrip(t *testing.T) {
	t.Parallel()

	parts := []string{"paths", "/v1/movies/{id}", "get", "responses", "200"}
	pointer := PartsToJSONPointer(parts)
	assert.Equal(t, JSONPointer("/paths/~1v1~1movies~1{id}/get/responses/200"), pointer)

	back, err := pointer.Parts()
	require.NoError(t, err)
	assert.Equal(t, parts, back)

	assert.Equal(t, JSONPointer("/"), PartsToJSONPointer(nil))
}

func TestGetNodeTarget_Success(t *testing.T) {
	t.Parallel()

	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(`
paths:
  /v1/movies:
    get:
      parameters:
        - name: limit
        - name: offset
components:
  schemas:
    Movie:
      type: object
`), &doc))

	tests := []struct {
		name     string
		pointer  JSONPointer
		expected string
		kind     yaml.Kind
	}{
		{name: "root", pointer: "/", kind: yaml.MappingNode},
		{name: "nested mapping", pointer: "/components/schemas/Movie/type", expected: "object", kind: yaml.ScalarNode},
		{name: "escaped key and index", pointer: "/paths/~1v1~1movies/get/parameters/1/name", expected: "offset", kind: yaml.ScalarNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			node, err := GetNodeTarget(&doc, tt.pointer)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, node.Kind)
			if tt.expected != "" {
				assert.Equal(t, tt.expected, node.Value)
			}
		})
	}
}

func TestGetNodeTarget_Error(t *testing.T) {
	t.Parallel()

	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(`
components:
  schemas:
    Movie:
      type: object
      required: [id]
`), &doc))

	tests := []struct {
		name    string
		pointer JSONPointer
		target  error
	}{
		{name: "missing key", pointer: "/components/schemas/Actor", target: ErrNotFound},
		{name: "index out of range", pointer: "/components/schemas/Movie/required/3", target: ErrNotFound},
		{name: "key into sequence", pointer: "/components/schemas/Movie/required/id", target: ErrInvalidPath},
		{name: "through scalar", pointer: "/components/schemas/Movie/type/x", target: ErrInvalidPath},
		{name: "invalid pointer", pointer: "components", target: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := GetNodeTarget(&doc, tt.pointer)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}
