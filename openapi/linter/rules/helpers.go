package rules

import (
	"fmt"
	"strings"

	"github.com/speakeasy-api/openapi-schema-lint/jsonschema/compose"
	"github.com/speakeasy-api/openapi-schema-lint/linter"
	"github.com/speakeasy-api/openapi-schema-lint/openapi"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
	"github.com/speakeasy-api/openapi-schema-lint/walk"
	"github.com/speakeasy-api/openapi-schema-lint/yml"
	"go.yaml.in/yaml/v4"
)

const docsBaseURL = "https://github.com/speakeasy-api/openapi-schema-lint/blob/main/openapi/linter/README.md#"

// ruleLink returns the documentation anchor of a rule.
func ruleLink(id string) string {
	return docsBaseURL + id
}

// resolverFor returns a composition resolver over the linted document.
func resolverFor(docInfo *linter.DocumentInfo[*openapi.Document]) *compose.Resolver {
	return compose.NewResolver(docInfo.Document)
}

func hasIndex(docInfo *linter.DocumentInfo[*openapi.Document]) bool {
	return docInfo != nil && docInfo.Document != nil && docInfo.Index != nil
}

// finding builds a located validation error for a rule.
func finding(r linter.Rule, config *linter.RuleConfig, node *yaml.Node, loc walk.Locations, format string, args ...any) error {
	return validation.NewLocatedError(config.GetSeverity(r.DefaultSeverity()), r.ID(), fmt.Errorf(format, args...), node, loc)
}

// keywordFinding anchors a finding at the key of a keyword so the reported line points at it.
func keywordFinding(r linter.Rule, config *linter.RuleConfig, s compose.Schema, keyword string, format string, args ...any) error {
	node := s.KeywordNode(keyword)
	if node == nil {
		node = s.Node
	}
	return finding(r, config, node, s.Location.Append(keyword), format, args...)
}

// knownTypes returns the effective types of s without null. An empty result means the type is unknown.
func knownTypes(res *compose.Resolver, s compose.Schema) []string {
	var types []string
	for _, t := range res.EffectiveTypes(s) {
		if t != "null" {
			types = append(types, t)
		}
	}
	return types
}

func containsAny(types []string, wanted ...string) bool {
	for _, t := range types {
		for _, w := range wanted {
			if t == w {
				return true
			}
		}
	}
	return false
}

// isEffectively reports whether s is typed as typ, either declared, inherited through allOf or implied by its keywords.
func isEffectively(res *compose.Resolver, s compose.Schema, typ string) bool {
	if res.HasEffectiveType(s, typ) {
		return true
	}
	if s.Has(compose.KeywordType) {
		return false
	}
	switch typ {
	case "array":
		return s.Kind() == compose.KindArray
	case "object":
		return s.Kind() == compose.KindObject
	default:
		return false
	}
}

// misplacedKeywords reports keywords that only apply to the allowed types on a schema whose type is known to be something else.
func misplacedKeywords(r linter.Rule, config *linter.RuleConfig, res *compose.Resolver, s compose.Schema, keywords []string, allowed ...string) []error {
	types := knownTypes(res, s)
	if len(types) == 0 || containsAny(types, allowed...) {
		return nil
	}

	var errs []error
	for _, keyword := range keywords {
		if s.Has(keyword) {
			errs = append(errs, keywordFinding(r, config, s, keyword, "%s is only valid for %s schemas, found type %s", keyword, strings.Join(allowed, " or "), strings.Join(types, ", ")))
		}
	}
	return errs
}

// boundaryOrder reports a lower bound keyword greater than its upper bound keyword of the same schema.
func boundaryOrder(r linter.Rule, config *linter.RuleConfig, s compose.Schema, lowerKeyword, upperKeyword string) error {
	lower, ok := s.Number(lowerKeyword)
	if !ok {
		return nil
	}
	upper, ok := s.Number(upperKeyword)
	if !ok {
		return nil
	}
	if lower <= upper {
		return nil
	}
	return keywordFinding(r, config, s, lowerKeyword, "%s (%v) must not be greater than %s (%v)", lowerKeyword, lower, upperKeyword, upper)
}

// missingKeywords returns the keywords not defined for every branch of s.
func missingKeywords(res *compose.Resolver, s compose.Schema, keywords ...string) ([]string, error) {
	var missing []string
	for _, keyword := range keywords {
		ok, err := res.DefinesKeyword(s, keyword, compose.AllBranches)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, keyword)
		}
	}
	return missing, nil
}

// joinWords renders a list as "a", "a and b" or "a, b and c".
func joinWords(words []string) string {
	switch len(words) {
	case 0:
		return ""
	case 1:
		return words[0]
	default:
		return strings.Join(words[:len(words)-1], ", ") + " and " + words[len(words)-1]
	}
}

// isInlineMember reports whether a schema is defined inline as a member of allOf, oneOf or anyOf.
func isInlineMember(loc walk.Locations) bool {
	if len(loc) < 2 {
		return false
	}
	switch loc[len(loc)-2] {
	case compose.KeywordAllOf, compose.KeywordOneOf, compose.KeywordAnyOf:
		return true
	default:
		return false
	}
}

// lastSegment returns the final segment of a path template and whether it is static.
func lastSegment(path string) (string, bool) {
	path = strings.TrimSuffix(path, "/")
	segment := path[strings.LastIndex(path, "/")+1:]
	if segment == "" || strings.HasPrefix(segment, "{") {
		return segment, false
	}
	return segment, true
}

// objectResponseSchema returns the dereferenced schema of a JSON media type when it describes an object.
func objectResponseSchema(res *compose.Resolver, mt *openapi.MediaType) (compose.Schema, bool) {
	if mt.Schema.IsZero() {
		return compose.Schema{}, false
	}
	s, ok := res.Deref(mt.Schema)
	if !ok || s.Kind() == compose.KindUnknown {
		return compose.Schema{}, false
	}
	if isEffectively(res, s, "object") {
		return s, true
	}
	props, err := res.MergedProperties(s)
	if err != nil || len(props) == 0 {
		return compose.Schema{}, false
	}
	return s, true
}

// stringListOption reads a list of strings from the rule options, falling back to def when unset.
// Options decoded from YAML hold []any while defaults hold []string.
func stringListOption(config *linter.RuleConfig, key string, def []string) []string {
	if config == nil || config.Options == nil {
		return def
	}
	switch v := config.Options[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return def
	}
}

// stringOption reads a string from the rule options, falling back to def when unset.
func stringOption(config *linter.RuleConfig, key string, def string) string {
	if config == nil || config.Options == nil {
		return def
	}
	if s, ok := config.Options[key].(string); ok && s != "" {
		return s
	}
	return def
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

// keyNode returns the key node of key within a mapping, or the mapping itself when the key is absent.
func keyNode(node *yaml.Node, key string) *yaml.Node {
	if k, _, ok := yml.GetMapElementNodes(node, key); ok {
		return k
	}
	return node
}
