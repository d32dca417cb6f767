package linter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/speakeasy-api/openapi-schema-lint/errors"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a configuration cannot be used.
const ErrInvalidConfig = errors.Error("invalid lint config")

// Config represents the linter configuration
type Config struct {
	// Extends specifies rulesets to extend (e.g., "recommended", "all")
	Extends []string `yaml:"extends,omitempty" json:"extends,omitempty"`

	// Rules contains per-rule configuration
	Rules map[string]RuleConfig `yaml:"rules,omitempty" json:"rules,omitempty"`

	// Categories contains per-category configuration
	Categories map[string]CategoryConfig `yaml:"categories,omitempty" json:"categories,omitempty"`

	// Ignores contains global ignore patterns
	Ignores []IgnorePattern `yaml:"ignores,omitempty" json:"ignores,omitempty"`

	// OutputFormat specifies the output format
	OutputFormat OutputFormat `yaml:"output_format,omitempty" json:"output_format,omitempty"`
}

// RuleConfig configures a specific rule
type RuleConfig struct {
	// Enabled controls whether the rule is active
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`

	// Severity overrides the default severity
	Severity *validation.Severity `yaml:"severity,omitempty" json:"severity,omitempty"`

	// Options contains rule-specific configuration.
	// When a rule is run the linter merges these over the rule's ConfigDefaults.
	Options map[string]any `yaml:"options,omitempty" json:"options,omitempty"`
}

// GetSeverity returns the effective severity, falling back to default if not overridden
func (c *RuleConfig) GetSeverity(defaultSeverity validation.Severity) validation.Severity {
	if c != nil && c.Severity != nil {
		return *c.Severity
	}
	return defaultSeverity
}

// CategoryConfig configures an entire category of rules
type CategoryConfig struct {
	// Enabled controls whether all rules in the category are active
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`

	// Severity overrides the default severity for all rules in the category
	Severity *validation.Severity `yaml:"severity,omitempty" json:"severity,omitempty"`
}

// IgnorePattern specifies a pattern for ignoring results.
// All set fields must match for a result to be ignored.
type IgnorePattern struct {
	// Rule is the rule ID to ignore (empty = all rules)
	Rule string `yaml:"rule,omitempty" json:"rule,omitempty"`

	// Path selects the locations to ignore. A JSONPath expression ($.components.schemas.Legacy)
	// ignores results anchored at or below the selected nodes, a JSON pointer (/components/schemas/Legacy)
	// ignores results whose path starts with the pointer.
	Path string `yaml:"path,omitempty" json:"path,omitempty"`

	// Message pattern to match (regex)
	MessagePattern string `yaml:"message_pattern,omitempty" json:"message_pattern,omitempty"`
}

type OutputFormat string

const (
	OutputFormatText    OutputFormat = "text"
	OutputFormatJSON    OutputFormat = "json"
	OutputFormatSummary OutputFormat = "summary"
)

// NewConfig creates a new default configuration
func NewConfig() *Config {
	return &Config{
		Extends:      []string{"all"},
		Rules:        make(map[string]RuleConfig),
		Categories:   make(map[string]CategoryConfig),
		OutputFormat: OutputFormatText,
	}
}

// UnmarshalYAML accepts extends as either a single ruleset name or a list of names.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Extends      yaml.Node                 `yaml:"extends"`
		Rules        map[string]RuleConfig     `yaml:"rules"`
		Categories   map[string]CategoryConfig `yaml:"categories"`
		Ignores      []IgnorePattern           `yaml:"ignores"`
		OutputFormat OutputFormat              `yaml:"output_format"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	switch raw.Extends.Kind {
	case 0:
	case yaml.ScalarNode:
		c.Extends = []string{raw.Extends.Value}
	case yaml.SequenceNode:
		if err := raw.Extends.Decode(&c.Extends); err != nil {
			return err
		}
	default:
		return fmt.Errorf("line %d: extends must be a ruleset name or a list of ruleset names", raw.Extends.Line)
	}

	c.Rules = raw.Rules
	c.Categories = raw.Categories
	c.Ignores = raw.Ignores
	c.OutputFormat = raw.OutputFormat
	return nil
}

// Validate checks the configuration for values that cannot be applied.
func (c *Config) Validate() error {
	var errs []error

	switch c.OutputFormat {
	case "", OutputFormatText, OutputFormatJSON, OutputFormatSummary:
	default:
		errs = append(errs, fmt.Errorf("unknown output_format %q", c.OutputFormat))
	}

	for i, ignore := range c.Ignores {
		if ignore.Rule == "" && ignore.Path == "" && ignore.MessagePattern == "" {
			errs = append(errs, fmt.Errorf("ignores[%d]: at least one of rule, path or message_pattern is required", i))
			continue
		}
		if ignore.MessagePattern != "" {
			if _, err := regexp.Compile(ignore.MessagePattern); err != nil {
				errs = append(errs, fmt.Errorf("ignores[%d]: invalid message_pattern: %w", i, err))
			}
		}
		if ignore.Path != "" {
			if _, err := newPathMatcher(ignore.Path); err != nil {
				errs = append(errs, fmt.Errorf("ignores[%d]: %w", i, err))
			}
		}
	}

	for id := range c.Rules {
		if strings.TrimSpace(id) == "" {
			errs = append(errs, fmt.Errorf("rules: empty rule id"))
		}
	}

	if len(errs) > 0 {
		return ErrInvalidConfig.Wrap(errors.Join(errs...))
	}
	return nil
}
