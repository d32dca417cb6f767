package validation

import (
	"errors"
	"testing"

	"github.com/speakeasy-api/openapi-schema-lint/walk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func TestError_Error_Success(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name: "error with valid node",
			err: &Error{
				UnderlyingError: errors.New("test error"),
				Node:            &yaml.Node{Line: 10, Column: 5},
			},
			expected: "[10:5] test error",
		},
		{
			name: "error with nil node",
			err: &Error{
				UnderlyingError: errors.New("test error"),
			},
			expected: "[-1:-1] test error",
		},
		{
			name: "error with rule and severity",
			err: &Error{
				UnderlyingError: errors.New("test error"),
				Node:            &yaml.Node{Line: 3, Column: 7},
				Severity:        SeverityWarning,
				Rule:            "some-rule",
			},
			expected: "[3:7] warning some-rule test error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestError_Unwrap_Success(t *testing.T) {
	t.Parallel()

	underlying := errors.New("underlying error")
	err := NewLocatedError(SeverityWarning, "some-rule", underlying, &yaml.Node{Line: 1, Column: 1}, walk.Of("a", "b"))

	assert.Equal(t, underlying, err.Unwrap())
	assert.Equal(t, walk.Locations{"a", "b"}, err.Path)
	assert.Equal(t, "some-rule", err.Rule)
	assert.Equal(t, SeverityWarning, err.Severity)
}

func TestSeverity_ParseAndText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected Severity
		wantErr  bool
	}{
		{input: "error", expected: SeverityError},
		{input: "Warning", expected: SeverityWarning},
		{input: "info", expected: SeverityHint},
		{input: "hint", expected: SeverityHint},
		{input: "fatal", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			var s Severity
			err := s.UnmarshalText([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s)

			text, err := s.MarshalText()
			require.NoError(t, err)
			assert.Equal(t, tt.expected.String(), string(text))
		})
	}
}

func TestSortValidationErrors_Success(t *testing.T) {
	t.Parallel()

	internal := errors.New("internal failure")
	errs := []error{
		internal,
		NewValidationError(SeverityWarning, "b-rule", errors.New("second"), &yaml.Node{Line: 5, Column: 1}),
		NewValidationError(SeverityError, "a-rule", errors.New("first"), &yaml.Node{Line: 2, Column: 3}),
		NewValidationError(SeverityError, "a-rule", errors.New("same line earlier column"), &yaml.Node{Line: 5, Column: 0}),
	}

	SortValidationErrors(errs)

	require.Len(t, errs, 4)
	assert.Equal(t, "[2:3] error a-rule first", errs[0].Error())
	assert.Equal(t, "[5:0] error a-rule same line earlier column", errs[1].Error())
	assert.Equal(t, "[5:1] warning b-rule second", errs[2].Error())
	assert.Equal(t, internal, errs[3])
}
