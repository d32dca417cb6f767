package linter

import (
	"context"

	baseLinter "github.com/speakeasy-api/openapi-schema-lint/linter"
	"github.com/speakeasy-api/openapi-schema-lint/openapi"
	"github.com/speakeasy-api/openapi-schema-lint/openapi/linter/consistency"
	"github.com/speakeasy-api/openapi-schema-lint/openapi/linter/rules"
)

// RulesetRecommended holds the rules that catch documents code generators and validators
// will misread. API convention checks are left to the category rulesets.
const RulesetRecommended = "recommended"

// Linter is an OpenAPI-specific linter that automatically builds an index
// before running rules. This provides rules with efficient access to
// indexed document data via DocumentInfo.Index.
type Linter struct {
	base *baseLinter.Linter[*openapi.Document]
}

// NewLinterOption is a functional option for configuring linter creation.
type NewLinterOption func(*newLinterOpts)

type newLinterOpts struct {
	skipDefaultRules bool
}

// WithoutDefaultRules creates a linter with no rules registered.
// This is useful when only specific rules should run, registered via the Registry() method.
//
// Example:
//
//	linter, _ := NewLinter(config, WithoutDefaultRules())
//	linter.Registry().Register(&rules.ArrayItemsRule{})
func WithoutDefaultRules() NewLinterOption {
	return func(o *newLinterOpts) {
		o.skipDefaultRules = true
	}
}

// NewLinter creates a new OpenAPI linter.
// By default, all built-in rules and rulesets are registered. Use WithoutDefaultRules()
// to create a linter with no rules registered.
//
// Returns an error if the configuration cannot be applied.
func NewLinter(config *baseLinter.Config, opts ...NewLinterOption) (*Linter, error) {
	options := &newLinterOpts{}
	for _, opt := range opts {
		opt(options)
	}

	if config != nil {
		if err := config.Validate(); err != nil {
			return nil, err
		}
	}

	registry := baseLinter.NewRegistry[*openapi.Document]()

	if !options.skipDefaultRules {
		if err := registerDefaultRules(registry); err != nil {
			return nil, err
		}
	}

	return &Linter{
		base: baseLinter.NewLinter(config, registry),
	}, nil
}

// Registry returns the rule registry for documentation generation
func (l *Linter) Registry() *baseLinter.Registry[*openapi.Document] {
	return l.base.Registry()
}

// Lint runs all configured rules against the document.
//
// The index is built when docInfo does not carry one and its reference errors are reported with
// the findings. Every call gets its own consistency context so sightings recorded by one document
// never reach another.
func (l *Linter) Lint(ctx context.Context, docInfo *baseLinter.DocumentInfo[*openapi.Document], preExistingErrors []error, opts *baseLinter.LintOptions) (*baseLinter.Output, error) {
	if docInfo != nil && docInfo.Index == nil && docInfo.Document != nil {
		idx := openapi.BuildIndex(ctx, docInfo.Document)

		docInfo = baseLinter.NewDocumentInfoWithIndex(docInfo.Document, docInfo.Location, idx)

		if idx.HasErrors() {
			preExistingErrors = append(preExistingErrors, idx.GetAllErrors()...)
		}
	}

	// Filter rules based on OpenAPI version
	if opts == nil {
		opts = &baseLinter.LintOptions{}
	}
	if opts.VersionFilter == nil && docInfo != nil && docInfo.Document != nil {
		version := docInfo.Document.Version()
		opts.VersionFilter = &version
	}

	ctx = consistency.WithContext(ctx, consistency.New())

	return l.base.Lint(ctx, docInfo, preExistingErrors, opts)
}

func registerDefaultRules(registry *baseLinter.Registry[*openapi.Document]) error {
	for _, rule := range rules.All() {
		registry.Register(rule)
	}

	return registerRulesets(registry)
}

// registerRulesets registers the built-in rulesets.
func registerRulesets(registry *baseLinter.Registry[*openapi.Document]) error {
	if err := registry.RegisterRuleset(RulesetRecommended, []string{
		// Schemas that generators cannot type
		rules.RuleSchemasArrayItems,
		rules.RuleSchemasArrayBoundary,
		rules.RuleSchemasNumericBoundary,
		rules.RuleSchemasObjectBoundary,
		rules.RuleSchemasStringBoundary,
		rules.RuleSchemasWellDefinedDictionaries,

		// Broken cross references
		rules.RuleSchemasDiscriminatorPropertyDefined,
		rules.RuleSchemasRequiredPropertyDefined,
		rules.RuleSchemasPropertyConsistentType,
		rules.RuleSecuritySchemeReferences,

		rules.RuleStyleNoRefSiblings,
	}); err != nil {
		return err
	}

	for _, category := range []string{rules.CategorySchemas, rules.CategoryOperations, rules.CategorySecurity, rules.CategoryStyle} {
		if err := registry.RegisterCategoryRuleset(category); err != nil {
			return err
		}
	}

	return nil
}
