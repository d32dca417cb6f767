package rules

import (
	"context"

	"github.com/speakeasy-api/openapi-schema-lint/linter"
	"github.com/speakeasy-api/openapi-schema-lint/openapi"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
)

const RuleOperationsCollectionArrayProperty = "operations-collection-array-property"

type CollectionArrayPropertyRule struct{}

func (r *CollectionArrayPropertyRule) ID() string { return RuleOperationsCollectionArrayProperty }
func (r *CollectionArrayPropertyRule) Category() string {
	return CategoryOperations
}
func (r *CollectionArrayPropertyRule) Description() string {
	return "A GET operation on a collection path, one ending in a static segment such as `/v1/movies`, whose JSON success response is an object holding arrays must name its array property after the final path segment (`movies`)."
}
func (r *CollectionArrayPropertyRule) Summary() string {
	return "Collection responses must name their array property after the path."
}
func (r *CollectionArrayPropertyRule) Link() string {
	return ruleLink(RuleOperationsCollectionArrayProperty)
}
func (r *CollectionArrayPropertyRule) DefaultSeverity() validation.Severity {
	return validation.SeverityWarning
}
func (r *CollectionArrayPropertyRule) Versions() []string {
	return nil
}

func (r *CollectionArrayPropertyRule) Run(ctx context.Context, docInfo *linter.DocumentInfo[*openapi.Document], config *linter.RuleConfig) []error {
	if !hasIndex(docInfo) {
		return nil
	}

	res := resolverFor(docInfo)

	var errs []error
	for _, op := range docInfo.Index.Operations {
		if err := ctx.Err(); err != nil {
			return append(errs, err)
		}
		if op.Method != "get" {
			continue
		}
		segment, static := lastSegment(op.Path)
		if !static {
			continue
		}

		for _, response := range op.SuccessResponses() {
			for _, mt := range response.JSONContent() {
				s, ok := objectResponseSchema(res, mt)
				if !ok {
					continue
				}

				props, err := res.MergedProperties(s)
				if err != nil {
					errs = append(errs, err)
					continue
				}

				var arrays []string
				named := false
				for _, prop := range props {
					if !isEffectively(res, derefOrSelf(res, prop.Schema), "array") {
						continue
					}
					arrays = append(arrays, prop.Name)
					if prop.Name == segment {
						named = true
					}
				}

				if len(arrays) > 0 && !named {
					errs = append(errs, finding(r, config, keyNode(mt.Node, "schema"), mt.Location.Append("schema"), "response of GET %s must name its array property %q, found %s", op.Path, segment, joinWords(quoteAll(arrays))))
				}
			}
		}
	}

	return errs
}

func quoteAll(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = `"` + item + `"`
	}
	return out
}
