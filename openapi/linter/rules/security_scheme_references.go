package rules

import (
	"context"

	"github.com/speakeasy-api/openapi-schema-lint/linter"
	"github.com/speakeasy-api/openapi-schema-lint/openapi"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
	"github.com/speakeasy-api/openapi-schema-lint/walk"
	"github.com/speakeasy-api/openapi-schema-lint/yml"
	"go.yaml.in/yaml/v4"
)

const RuleSecuritySchemeReferences = "security-scheme-references"

type SecuritySchemeReferencesRule struct{}

func (r *SecuritySchemeReferencesRule) ID() string       { return RuleSecuritySchemeReferences }
func (r *SecuritySchemeReferencesRule) Category() string { return CategorySecurity }
func (r *SecuritySchemeReferencesRule) Description() string {
	return "Security requirements, global or per operation, must only reference schemes defined in `components.securitySchemes` and, for `oauth2` schemes, scopes declared by one of the scheme's flows. Scopes may only be listed for `oauth2` and `openIdConnect` schemes. Defined schemes that are never referenced and declared `oauth2` scopes that are never requested are reported as unused."
}
func (r *SecuritySchemeReferencesRule) Summary() string {
	return "Security schemes and scopes must be defined and used."
}
func (r *SecuritySchemeReferencesRule) Link() string {
	return ruleLink(RuleSecuritySchemeReferences)
}
func (r *SecuritySchemeReferencesRule) DefaultSeverity() validation.Severity {
	return validation.SeverityError
}
func (r *SecuritySchemeReferencesRule) Versions() []string {
	return nil
}

// definedScheme is a security scheme and the scopes its flows declare.
type definedScheme struct {
	name     string
	typ      string
	keyNode  *yaml.Node
	location walk.Locations
	scopes   []declaredScope
	used     bool
	// usedScopes holds the scopes requested by any requirement.
	usedScopes map[string]bool
}

type declaredScope struct {
	name     string
	node     *yaml.Node
	location walk.Locations
}

func (d *definedScheme) declares(scope string) bool {
	for _, s := range d.scopes {
		if s.name == scope {
			return true
		}
	}
	return false
}

func (r *SecuritySchemeReferencesRule) Run(ctx context.Context, docInfo *linter.DocumentInfo[*openapi.Document], config *linter.RuleConfig) []error {
	if !hasIndex(docInfo) {
		return nil
	}

	schemes := definedSchemes(docInfo)

	var errs []error
	for _, requirement := range docInfo.Index.Requirements {
		if err := ctx.Err(); err != nil {
			return append(errs, err)
		}

		for _, entry := range yml.MapEntries(requirement.Node) {
			loc := requirement.Location.Append(entry.Key)
			scheme, ok := schemes[entry.Key]
			if !ok {
				errs = append(errs, finding(r, config, entry.KeyNode, loc, "security scheme %q is not defined in components.securitySchemes", entry.Key))
				continue
			}
			scheme.used = true

			scopes := yml.SequenceItems(entry.Value)
			if len(scopes) == 0 {
				continue
			}

			switch scheme.typ {
			case "oauth2":
				for i, scopeNode := range scopes {
					scope := yml.StringValue(scopeNode)
					if !scheme.declares(scope) {
						errs = append(errs, finding(r, config, scopeNode, loc.AppendIndex(i), "scope %q is not declared by security scheme %q", scope, scheme.name))
						continue
					}
					scheme.usedScopes[scope] = true
				}
			case "openIdConnect":
				// scopes are defined by the provider and cannot be checked
			default:
				errs = append(errs, finding(r, config, entry.Value, loc, "security scheme %q of type %s does not support scopes", scheme.name, scheme.typ))
			}
		}
	}

	for _, indexed := range docInfo.Index.SecuritySchemes {
		scheme := schemes[indexed.Name()]
		if scheme == nil {
			continue
		}
		if !scheme.used {
			errs = append(errs, finding(r, config, scheme.keyNode, scheme.location, "security scheme %q is defined but never used", scheme.name))
			continue
		}
		for _, scope := range scheme.scopes {
			if !scheme.usedScopes[scope.name] {
				errs = append(errs, finding(r, config, scope.node, scope.location, "scope %q of security scheme %q is defined but never used", scope.name, scheme.name))
			}
		}
	}

	return errs
}

func definedSchemes(docInfo *linter.DocumentInfo[*openapi.Document]) map[string]*definedScheme {
	schemes := make(map[string]*definedScheme)
	for _, indexed := range docInfo.Index.SecuritySchemes {
		name := indexed.Name()
		key := indexed.Node
		if k, _, ok := yml.GetMapElementNodes(docInfo.Document.Get(indexed.Location[:len(indexed.Location)-1]), name); ok {
			key = k
		}

		scheme := &definedScheme{
			name:       name,
			typ:        yml.StringValue(yml.GetMapElement(indexed.Node, "type")),
			keyNode:    key,
			location:   indexed.Location,
			usedScopes: make(map[string]bool),
		}

		if scheme.typ == "oauth2" {
			for _, flow := range yml.MapEntries(yml.GetMapElement(indexed.Node, "flows")) {
				for _, scope := range yml.MapEntries(yml.GetMapElement(flow.Value, "scopes")) {
					if scheme.declares(scope.Key) {
						continue
					}
					scheme.scopes = append(scheme.scopes, declaredScope{
						name:     scope.Key,
						node:     scope.KeyNode,
						location: indexed.Location.Append("flows", flow.Key, "scopes", scope.Key),
					})
				}
			}
		}

		schemes[name] = scheme
	}
	return schemes
}
