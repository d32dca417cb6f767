// Package vacuum exposes the OpenAPI lint rules as vacuum custom rule functions so they can run
// inside a vacuum ruleset next to its built-in functions.
package vacuum

import (
	"context"
	"fmt"

	"github.com/daveshanley/vacuum/model"
	"github.com/speakeasy-api/openapi-schema-lint/errors"
	"github.com/speakeasy-api/openapi-schema-lint/linter"
	"github.com/speakeasy-api/openapi-schema-lint/openapi"
	"github.com/speakeasy-api/openapi-schema-lint/openapi/linter/consistency"
	"github.com/speakeasy-api/openapi-schema-lint/openapi/linter/rules"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
	"go.yaml.in/yaml/v4"
)

// Option configures the functions returned by Functions.
type Option func(*functionOptions)

type functionOptions struct {
	ruleOptions map[string]map[string]any
}

// WithRuleOptions sets the options of the rule with the given ID.
// They are merged over the rule's defaults and validated when the functions are built.
func WithRuleOptions(ruleID string, options map[string]any) Option {
	return func(o *functionOptions) {
		o.ruleOptions[ruleID] = options
	}
}

// Functions returns a vacuum rule function for each rule, keyed by rule ID.
//
// Each function treats the first node it is given as the document root, so rules using them
// should select the whole document with `given: $`.
func Functions(ruleRunners []linter.RuleRunner[*openapi.Document], opts ...Option) (map[string]model.RuleFunction, error) {
	o := &functionOptions{ruleOptions: make(map[string]map[string]any)}
	for _, opt := range opts {
		opt(o)
	}

	functions := make(map[string]model.RuleFunction, len(ruleRunners))
	for _, rule := range ruleRunners {
		options, err := linter.ResolveRuleOptions(rule, o.ruleOptions[rule.ID()])
		if err != nil {
			return nil, linter.ErrInvalidConfig.Wrap(err)
		}
		functions[rule.ID()] = &ruleFunction{
			rule:   rule,
			config: linter.RuleConfig{Options: options},
		}
	}

	for id := range o.ruleOptions {
		if _, ok := functions[id]; !ok {
			return nil, linter.ErrInvalidConfig.Wrap(fmt.Errorf("options given for unknown rule %q", id))
		}
	}

	return functions, nil
}

// DefaultFunctions returns Functions for every built-in rule.
func DefaultFunctions(opts ...Option) (map[string]model.RuleFunction, error) {
	return Functions(rules.All(), opts...)
}

type ruleFunction struct {
	rule   linter.RuleRunner[*openapi.Document]
	config linter.RuleConfig
}

var _ model.RuleFunction = (*ruleFunction)(nil)

func (f *ruleFunction) GetSchema() model.RuleFunctionSchema {
	return model.RuleFunctionSchema{Name: f.rule.ID()}
}

func (f *ruleFunction) GetCategory() string {
	switch f.rule.Category() {
	case rules.CategorySchemas:
		return model.CategorySchemas
	case rules.CategoryOperations:
		return model.CategoryOperations
	case rules.CategorySecurity:
		return model.CategorySecurity
	default:
		return model.CategoryValidation
	}
}

func (f *ruleFunction) RunRule(nodes []*yaml.Node, fnCtx model.RuleFunctionContext) []model.RuleFunctionResult {
	if len(nodes) == 0 {
		return nil
	}

	ruleID := f.rule.ID()
	if fnCtx.Rule != nil && fnCtx.Rule.Id != "" {
		ruleID = fnCtx.Rule.Id
	}

	doc, err := openapi.NewDocument(nodes[0], "")
	if err != nil {
		return []model.RuleFunctionResult{internalResult(err, "$", nodes[0], ruleID, fnCtx)}
	}

	if !f.appliesTo(doc) {
		return nil
	}

	// vacuum runs each function on its own, so sightings are scoped to this call
	ctx := consistency.WithContext(context.Background(), consistency.New())

	idx := openapi.BuildIndex(ctx, doc)
	config := f.config

	var results []model.RuleFunctionResult
	for _, err := range f.rule.Run(ctx, linter.NewDocumentInfoWithIndex(doc, "", idx), &config) {
		var vErr *validation.Error
		if !errors.As(err, &vErr) {
			results = append(results, internalResult(err, "$", doc.Root(), ruleID, fnCtx))
			continue
		}

		node := vErr.Node
		if node == nil {
			node = doc.Root()
		}
		results = append(results, model.RuleFunctionResult{
			Message:   vErr.GetMessage(),
			Path:      vErr.Path.ToJSONPath(),
			RuleId:    ruleID,
			StartNode: node,
			EndNode:   node,
			Rule:      fnCtx.Rule,
		})
	}

	return results
}

func (f *ruleFunction) appliesTo(doc *openapi.Document) bool {
	versions := f.rule.Versions()
	if len(versions) == 0 {
		return true
	}
	for _, version := range versions {
		if doc.IsVersion(version) {
			return true
		}
	}
	return false
}

func internalResult(err error, path string, node *yaml.Node, ruleID string, fnCtx model.RuleFunctionContext) model.RuleFunctionResult {
	return model.RuleFunctionResult{
		Message:   "internal error: " + err.Error(),
		Path:      path,
		RuleId:    ruleID,
		StartNode: node,
		EndNode:   node,
		Rule:      fnCtx.Rule,
	}
}
