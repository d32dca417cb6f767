package rules

import (
	"context"
	"slices"
	"strings"

	"github.com/speakeasy-api/openapi-schema-lint/linter"
	"github.com/speakeasy-api/openapi-schema-lint/openapi"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
)

const RuleOperationsResourceResponseConsistency = "operations-resource-response-consistency"

type ResourceResponseConsistencyRule struct{}

func (r *ResourceResponseConsistencyRule) ID() string {
	return RuleOperationsResourceResponseConsistency
}
func (r *ResourceResponseConsistencyRule) Category() string { return CategoryOperations }
func (r *ResourceResponseConsistencyRule) Description() string {
	return "Create and update operations must return the canonical resource. The JSON success responses of `POST /things` and of `PUT` or `PATCH /things/{id}` must reference the same schema as the `GET /things/{id}` response, compared per content type."
}
func (r *ResourceResponseConsistencyRule) Summary() string {
	return "Create and update responses must match the get-by-id response."
}
func (r *ResourceResponseConsistencyRule) Link() string {
	return ruleLink(RuleOperationsResourceResponseConsistency)
}
func (r *ResourceResponseConsistencyRule) DefaultSeverity() validation.Severity {
	return validation.SeverityWarning
}
func (r *ResourceResponseConsistencyRule) Versions() []string {
	return nil
}

// canonical maps content types to the reference of the get-by-id response.
type canonical map[string]string

func (r *ResourceResponseConsistencyRule) Run(ctx context.Context, docInfo *linter.DocumentInfo[*openapi.Document], config *linter.RuleConfig) []error {
	if !hasIndex(docInfo) {
		return nil
	}

	// resource path (/things/{id}) -> canonical references
	resources := make(map[string]canonical)
	for _, op := range docInfo.Index.Operations {
		if op.Method != "get" || !isItemPath(op.Path) {
			continue
		}
		if refs := canonicalRefs(op); len(refs) > 0 {
			resources[op.Path] = refs
		}
	}
	if len(resources) == 0 {
		return nil
	}

	var errs []error
	for _, op := range docInfo.Index.Operations {
		if err := ctx.Err(); err != nil {
			return append(errs, err)
		}

		var resourcePath string
		switch op.Method {
		case "post":
			resourcePath = itemPathOf(resources, op.Path)
		case "put", "patch":
			if isItemPath(op.Path) {
				resourcePath = op.Path
			}
		}
		refs, ok := resources[resourcePath]
		if !ok {
			continue
		}

		for _, response := range op.SuccessResponses() {
			for _, mt := range response.JSONContent() {
				want, ok := refs[mt.ContentType]
				if !ok {
					continue
				}
				got := ""
				if ref, ok := mt.Schema.Reference(); ok {
					got = ref.String()
				}
				if got == want {
					continue
				}
				errs = append(errs, finding(r, config, keyNode(mt.Node, "schema"), mt.Location.Append("schema"), "%s %s response must reference %s like GET %s", strings.ToUpper(op.Method), op.Path, want, resourcePath))
			}
		}
	}

	return errs
}

// canonicalRefs returns the schema references of the first success response of a get-by-id operation.
func canonicalRefs(op *openapi.Operation) canonical {
	for _, response := range op.SuccessResponses() {
		refs := make(canonical)
		for _, mt := range response.JSONContent() {
			if ref, ok := mt.Schema.Reference(); ok {
				refs[mt.ContentType] = ref.String()
			}
		}
		if len(refs) > 0 {
			return refs
		}
	}
	return nil
}

// isItemPath reports whether the final segment of a path is a path parameter.
func isItemPath(path string) bool {
	segment, static := lastSegment(path)
	return !static && segment != ""
}

// itemPathOf returns the item path of a collection path, /things -> /things/{id}.
func itemPathOf(resources map[string]canonical, collection string) string {
	prefix := strings.TrimSuffix(collection, "/") + "/"
	var candidates []string
	for path := range resources {
		rest, ok := strings.CutPrefix(path, prefix)
		if ok && !strings.Contains(rest, "/") {
			candidates = append(candidates, path)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	slices.Sort(candidates)
	return candidates[0]
}
