package rules

import (
	"context"
	"strings"

	"github.com/speakeasy-api/openapi-schema-lint/jsonschema/compose"
	"github.com/speakeasy-api/openapi-schema-lint/linter"
	"github.com/speakeasy-api/openapi-schema-lint/openapi"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
	"github.com/speakeasy-api/openapi-schema-lint/walk"
	"go.yaml.in/yaml/v4"
)

const RuleOperationsPaginationStyle = "operations-pagination-style"

var paginationLinks = []string{"first", "last", "next", "previous"}

type PaginationStyleRule struct{}

func (r *PaginationStyleRule) ID() string       { return RuleOperationsPaginationStyle }
func (r *PaginationStyleRule) Category() string { return CategoryOperations }
func (r *PaginationStyleRule) Description() string {
	return "GET operations paginated with an `offset` or `start` query parameter and returning a JSON object must follow the pagination conventions. `offset` must be an optional integer accompanied by an optional integer `limit` with a `default` and a `maximum`. `start` must be an optional string named exactly `start`. The response must define required integer `limit` and `offset` properties when paginated by offset, a required integer `total_count`, a required array property named after the final path segment and `first`, `last`, `next` and `previous` link objects with a string `href`."
}
func (r *PaginationStyleRule) Summary() string {
	return "Paginated list operations must follow the pagination conventions."
}
func (r *PaginationStyleRule) Link() string {
	return ruleLink(RuleOperationsPaginationStyle)
}
func (r *PaginationStyleRule) DefaultSeverity() validation.Severity {
	return validation.SeverityError
}
func (r *PaginationStyleRule) Versions() []string {
	return nil
}

func (r *PaginationStyleRule) Run(ctx context.Context, docInfo *linter.DocumentInfo[*openapi.Document], config *linter.RuleConfig) []error {
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

		offset, hasOffset := op.QueryParameter("offset")
		start, hasStart := op.QueryParameter("start")
		if !hasOffset && !hasStart {
			continue
		}

		response, ok := paginatedResponse(res, op)
		if !ok {
			continue
		}

		p := &paginationCheck{rule: r, config: config, res: res}

		if hasOffset {
			p.checkParameter(offset, "offset", "integer")
			limit, ok := op.QueryParameter("limit")
			if !ok {
				p.report(keyNode(op.Node, "parameters"), op.Location.Append("parameters"), "operations paginated by offset must define a limit query parameter")
			} else {
				p.checkParameter(limit, "limit", "integer")
				p.checkLimitBounds(limit)
			}
		}
		if hasStart {
			if start.Name != "start" {
				p.report(keyNode(start.Node, "name"), start.Location.Append("name"), "start parameter must be named %q, found %q", "start", start.Name)
			}
			p.checkParameter(start, "start", "string")
		}

		if hasOffset {
			p.checkResponseProperty(response, "limit", "integer")
			p.checkResponseProperty(response, "offset", "integer")
		}
		p.checkResponseProperty(response, "total_count", "integer")

		if segment, static := lastSegment(op.Path); static {
			p.checkResponseProperty(response, segment, "array")
		}

		for _, link := range paginationLinks {
			p.checkLink(response, link)
		}

		errs = append(errs, p.errs...)
	}

	return errs
}

// paginatedResponse returns the first JSON object schema of the operation's success responses.
func paginatedResponse(res *compose.Resolver, op *openapi.Operation) (compose.Schema, bool) {
	for _, response := range op.SuccessResponses() {
		for _, mt := range response.JSONContent() {
			if s, ok := objectResponseSchema(res, mt); ok {
				return s, true
			}
		}
	}
	return compose.Schema{}, false
}

type paginationCheck struct {
	rule   *PaginationStyleRule
	config *linter.RuleConfig
	res    *compose.Resolver
	errs   []error
}

func (p *paginationCheck) report(node *yaml.Node, loc walk.Locations, format string, args ...any) {
	p.errs = append(p.errs, finding(p.rule, p.config, node, loc, format, args...))
}

// checkParameter requires a pagination parameter to be optional and of the given type.
func (p *paginationCheck) checkParameter(param *openapi.Parameter, role, typ string) {
	if param.Required {
		p.report(keyNode(param.Node, "required"), param.Location.Append("required"), "%s parameter must be optional", role)
	}
	if !p.res.HasEffectiveType(param.Schema, typ) {
		p.report(keyNode(param.Node, "schema"), param.Location.Append("schema"), "%s parameter must be of type %s", role, typ)
	}
}

func (p *paginationCheck) checkLimitBounds(limit *openapi.Parameter) {
	schema, _ := p.res.Deref(limit.Schema)
	var missing []string
	for _, keyword := range []string{"default", "maximum"} {
		ok, err := p.res.DefinesKeyword(schema, keyword, compose.AllBranches)
		if err != nil {
			p.errs = append(p.errs, err)
			return
		}
		if !ok {
			missing = append(missing, keyword)
		}
	}
	if len(missing) > 0 {
		p.report(keyNode(limit.Node, "schema"), limit.Location.Append("schema"), "limit parameter must define %s", strings.Join(missing, " and "))
	}
}

// checkResponseProperty requires a property of the response schema to be defined, required and of the given type.
func (p *paginationCheck) checkResponseProperty(response compose.Schema, name, typ string) {
	prop, ok, err := p.res.FindProperty(response, name)
	if err != nil {
		p.errs = append(p.errs, err)
		return
	}
	if !ok {
		p.report(response.Node, response.Location, "response schema must define a required %s property %q", typ, name)
		return
	}

	if !isEffectively(p.res, derefOrSelf(p.res, prop.Schema), typ) {
		p.report(prop.KeyNode, prop.Schema.Location, "response property %q must be of type %s", name, typ)
	}

	required, err := p.res.IsRequired(response, name, compose.AtLeastOne)
	if err != nil {
		p.errs = append(p.errs, err)
		return
	}
	if !required {
		p.report(prop.KeyNode, prop.Schema.Location, "response property %q must be required", name)
	}
}

// checkLink requires a page link property holding an object with a string href.
func (p *paginationCheck) checkLink(response compose.Schema, name string) {
	prop, ok, err := p.res.FindProperty(response, name)
	if err != nil {
		p.errs = append(p.errs, err)
		return
	}
	if !ok {
		p.report(response.Node, response.Location, "response schema must define a %q link property", name)
		return
	}

	link := derefOrSelf(p.res, prop.Schema)
	href, ok, err := p.res.FindProperty(link, "href")
	if err == nil && ok && isEffectively(p.res, link, "object") && p.res.HasEffectiveType(href.Schema, "string") {
		return
	}
	p.report(prop.KeyNode, prop.Schema.Location, "link property %q must be an object with a string href property", name)
}

func derefOrSelf(res *compose.Resolver, s compose.Schema) compose.Schema {
	resolved, _ := res.Deref(s)
	return resolved
}
