package linter

import (
	"context"
	"runtime"
	"sort"
	"strings"

	"github.com/speakeasy-api/openapi-schema-lint/errors"
	"github.com/speakeasy-api/openapi-schema-lint/linter/format"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
	"go.yaml.in/yaml/v4"
	"golang.org/x/sync/errgroup"
)

// Linter is the main linting engine
type Linter[T any] struct {
	config   *Config
	registry *Registry[T]
	options  *optionsValidator
}

// NewLinter creates a new linter with the given configuration
func NewLinter[T any](config *Config, registry *Registry[T]) *Linter[T] {
	if config == nil {
		config = NewConfig()
	}
	return &Linter[T]{
		config:   config,
		registry: registry,
		options:  newOptionsValidator(),
	}
}

// Registry returns the rule registry for documentation generation
func (l *Linter[T]) Registry() *Registry[T] {
	return l.registry
}

// Lint runs all configured rules against the document
func (l *Linter[T]) Lint(ctx context.Context, docInfo *DocumentInfo[T], preExistingErrors []error, opts *LintOptions) (*Output, error) {
	ignores, err := compileIgnores(l.config.Ignores)
	if err != nil {
		return nil, ErrInvalidConfig.Wrap(err)
	}

	var allErrs []error

	if len(preExistingErrors) > 0 {
		allErrs = append(allErrs, preExistingErrors...)
	}

	lintErrs, err := l.runRules(ctx, docInfo, opts)
	if err != nil {
		return nil, err
	}
	allErrs = append(allErrs, lintErrs...)

	allErrs = l.applySeverityOverrides(allErrs)

	if docInfo != nil {
		allErrs = filterIgnored(allErrs, ignores, docInfo.Root)
	}

	validation.SortValidationErrors(allErrs)

	return l.formatOutput(allErrs), nil
}

func (l *Linter[T]) runRules(ctx context.Context, docInfo *DocumentInfo[T], opts *LintOptions) ([]error, error) {
	enabledRules := l.getEnabledRules()

	var versionFilter string
	if opts != nil && opts.VersionFilter != nil {
		versionFilter = *opts.VersionFilter
	}

	// each rule writes its own slot so the pre-sort order is deterministic
	results := make([][]error, len(enabledRules))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, rule := range enabledRules {
		if !appliesToVersion(rule, versionFilter) {
			continue
		}

		ruleConfig := l.getRuleConfig(rule.ID())

		options, err := l.options.resolve(rule, ruleConfig.Options)
		if err != nil {
			results[i] = []error{optionsError(err)}
			continue
		}
		ruleConfig.Options = options

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = rule.Run(gctx, docInfo, &ruleConfig)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var errs []error
	for _, r := range results {
		errs = append(errs, r...)
	}
	return errs, nil
}

// appliesToVersion matches the rule's versions against the document version, supporting both
// exact ("3.1") and prefix ("3.1" matches "3.1.0") forms.
func appliesToVersion(rule Rule, version string) bool {
	ruleVersions := rule.Versions()
	if version == "" || len(ruleVersions) == 0 {
		return true
	}
	for _, ruleVersion := range ruleVersions {
		if ruleVersion == version || strings.HasPrefix(version, ruleVersion+".") {
			return true
		}
	}
	return false
}

func (l *Linter[T]) getEnabledRules() []RuleRunner[T] {
	// ruleID -> enabled
	ruleStatus := make(map[string]bool)

	for _, ruleset := range l.config.Extends {
		if ids, ok := l.registry.GetRuleset(ruleset); ok {
			for _, id := range ids {
				ruleStatus[id] = true
			}
		}
	}

	// Category config overrides ruleset config but is overridden by individual rule config
	for _, rule := range l.registry.AllRules() {
		if catConfig, ok := l.config.Categories[rule.Category()]; ok {
			if catConfig.Enabled != nil {
				ruleStatus[rule.ID()] = *catConfig.Enabled
			}
		}
	}

	for id, ruleConfig := range l.config.Rules {
		if ruleConfig.Enabled != nil {
			ruleStatus[id] = *ruleConfig.Enabled
		}
	}

	var enabled []RuleRunner[T]
	for id, enabledFlag := range ruleStatus {
		if enabledFlag {
			if rule, ok := l.registry.GetRule(id); ok {
				enabled = append(enabled, rule)
			}
		}
	}

	sort.Slice(enabled, func(i, j int) bool {
		return enabled[i].ID() < enabled[j].ID()
	})

	return enabled
}

func (l *Linter[T]) getRuleConfig(ruleID string) RuleConfig {
	config := RuleConfig{}

	if rule, ok := l.registry.GetRule(ruleID); ok {
		if catConfig, ok := l.config.Categories[rule.Category()]; ok {
			if catConfig.Severity != nil {
				config.Severity = catConfig.Severity
			}
		}
	}

	if ruleConfig, ok := l.config.Rules[ruleID]; ok {
		if ruleConfig.Severity != nil {
			config.Severity = ruleConfig.Severity
		}
		if ruleConfig.Options != nil {
			config.Options = ruleConfig.Options
		}
	}

	return config
}

func (l *Linter[T]) applySeverityOverrides(errs []error) []error {
	for _, err := range errs {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			config := l.getRuleConfig(vErr.Rule)
			if config.Severity != nil {
				vErr.Severity = *config.Severity
			}
		}
	}
	return errs
}

func filterIgnored(errs []error, ignores []*ignoreMatcher, root *yaml.Node) []error {
	if len(ignores) == 0 {
		return errs
	}

	kept := errs[:0]
	for _, err := range errs {
		var vErr *validation.Error
		if errors.As(err, &vErr) && isIgnored(vErr, ignores, root) {
			continue
		}
		kept = append(kept, err)
	}
	return kept
}

func isIgnored(vErr *validation.Error, ignores []*ignoreMatcher, root *yaml.Node) bool {
	for _, ignore := range ignores {
		if ignore.matches(root, vErr) {
			return true
		}
	}
	return false
}

func (l *Linter[T]) formatOutput(errs []error) *Output {
	return &Output{
		Results: errs,
		Format:  l.config.OutputFormat,
	}
}

// Output represents the result of linting
type Output struct {
	Results []error
	Format  OutputFormat
	// Color enables ANSI colors in text output.
	Color bool
}

func (o *Output) HasErrors() bool {
	return o.ErrorCount() > 0
}

// ErrorCount counts error severity findings. Errors that are not findings count as errors.
func (o *Output) ErrorCount() int {
	count := 0
	for _, err := range o.Results {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			if vErr.Severity == validation.SeverityError {
				count++
			}
		} else {
			count++
		}
	}
	return count
}

// Render renders the results in the output's configured format.
func (o *Output) Render() string {
	switch o.Format {
	case OutputFormatJSON:
		return o.FormatJSON()
	case OutputFormatSummary:
		return o.FormatSummary()
	default:
		return o.FormatText()
	}
}

func (o *Output) FormatText() string {
	f := format.NewTextFormatter(format.WithColor(o.Color))
	s, _ := f.Format(o.Results)
	return s
}

func (o *Output) FormatJSON() string {
	f := format.NewJSONFormatter()
	s, _ := f.Format(o.Results)
	return s
}

func (o *Output) FormatSummary() string {
	f := format.NewSummaryFormatter()
	s, _ := f.Format(o.Results)
	return s
}
