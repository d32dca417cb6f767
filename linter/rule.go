package linter

import (
	"context"

	"github.com/speakeasy-api/openapi-schema-lint/validation"
)

// Rule represents a single linting rule
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "schemas-array-items")
	ID() string

	// Category returns the rule category (e.g., "schemas", "operations", "security")
	Category() string

	// Description returns a human-readable description of what the rule checks
	Description() string

	// Summary returns a short summary of what the rule checks
	Summary() string

	// Link returns an optional URL to documentation for this rule
	Link() string

	// DefaultSeverity returns the default severity level for this rule
	DefaultSeverity() validation.Severity

	// Versions returns the OpenAPI versions this rule applies to (nil = all versions).
	// Supports exact versions ("3.1") and prefix matching ("3.0" matches "3.0.x").
	Versions() []string
}

// RuleRunner is the interface rules must implement to execute their logic
// This is separate from Rule to allow different runner types for different specs
type RuleRunner[T any] interface {
	Rule

	// Run executes the rule against the provided document.
	// Findings are returned as *validation.Error. Any other error means the rule could not
	// complete, for example because the document holds a malformed schema.
	Run(ctx context.Context, docInfo *DocumentInfo[T], config *RuleConfig) []error
}

// DocumentedRule provides extended documentation for a rule
type DocumentedRule interface {
	Rule

	// GoodExample returns YAML showing correct usage
	GoodExample() string

	// BadExample returns YAML showing incorrect usage
	BadExample() string

	// Rationale explains why this rule exists
	Rationale() string
}

// ConfigurableRule indicates a rule has configurable options
type ConfigurableRule interface {
	Rule

	// ConfigSchema returns JSON Schema for rule-specific options
	ConfigSchema() map[string]any

	// ConfigDefaults returns default values for options
	ConfigDefaults() map[string]any
}
