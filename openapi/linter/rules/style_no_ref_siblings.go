package rules

import (
	"context"
	"strings"

	"github.com/speakeasy-api/openapi-schema-lint/linter"
	"github.com/speakeasy-api/openapi-schema-lint/openapi"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
	"github.com/speakeasy-api/openapi-schema-lint/walk"
	"github.com/speakeasy-api/openapi-schema-lint/yml"
	"go.yaml.in/yaml/v4"
)

const RuleStyleNoRefSiblings = "style-no-ref-siblings"

type NoRefSiblingsRule struct{}

func (r *NoRefSiblingsRule) ID() string       { return RuleStyleNoRefSiblings }
func (r *NoRefSiblingsRule) Category() string { return CategoryStyle }
func (r *NoRefSiblingsRule) Description() string {
	return "In OpenAPI 3.0.x, a $ref field should not have sibling properties alongside it in the same object. Either use $ref alone or move additional properties to the referenced definition. OpenAPI 3.1+ allows $ref siblings per JSON Schema Draft 2020-12."
}
func (r *NoRefSiblingsRule) Summary() string {
	return "`$ref` must not have sibling properties in OpenAPI 3.0.x."
}
func (r *NoRefSiblingsRule) Link() string {
	return ruleLink(RuleStyleNoRefSiblings)
}
func (r *NoRefSiblingsRule) DefaultSeverity() validation.Severity {
	return validation.SeverityWarning
}
func (r *NoRefSiblingsRule) Versions() []string {
	// siblings are ignored by 3.0 tooling and allowed from 3.1
	return []string{"3.0"}
}

func (r *NoRefSiblingsRule) Run(ctx context.Context, docInfo *linter.DocumentInfo[*openapi.Document], config *linter.RuleConfig) []error {
	if docInfo == nil || docInfo.Document == nil {
		return nil
	}

	var errs []error

	// the unresolved tree is walked since resolution hides the siblings
	err := yml.Walk(ctx, docInfo.Document.Root(), func(_ context.Context, node, _ *yaml.Node, loc walk.Locations) error {
		if isExampleValue(loc) {
			return yml.ErrSkipChildren
		}
		if node.Kind != yaml.MappingNode {
			return nil
		}

		_, ref, ok := yml.GetMapElementNodes(node, "$ref")
		if !ok || ref.Kind != yaml.ScalarNode {
			return nil
		}

		var siblings []string
		for _, entry := range yml.MapEntries(node) {
			if entry.Key != "$ref" {
				siblings = append(siblings, entry.Key)
			}
		}
		if len(siblings) > 0 {
			errs = append(errs, finding(r, config, node, loc, "$ref must not have sibling properties in OAS 3.0.x, found %s", strings.Join(siblings, ", ")))
		}
		return nil
	})
	if err != nil {
		errs = append(errs, err)
	}

	return errs
}

// isExampleValue reports whether loc is the value of an example, whose content is free form.
func isExampleValue(loc walk.Locations) bool {
	n := len(loc)
	if n < 2 || loc[n-2] == "properties" {
		return false
	}
	return loc[n-1] == "example" || (loc[n-1] == "value" && n >= 3 && loc[n-3] == "examples")
}
