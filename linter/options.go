package linter

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	jsValidator "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/speakeasy-api/openapi-schema-lint/errors"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var defaultPrinter = message.NewPrinter(language.English)

// optionsValidator validates rule options against the JSON Schema each ConfigurableRule declares.
// Compiled schemas are cached per rule ID.
type optionsValidator struct {
	mu      sync.Mutex
	schemas map[string]*jsValidator.Schema
}

func newOptionsValidator() *optionsValidator {
	return &optionsValidator{schemas: make(map[string]*jsValidator.Schema)}
}

// ResolveRuleOptions merges configured over the rule's defaults and validates the result against
// the rule's options schema, the same way the linter does before running a rule.
func ResolveRuleOptions(rule Rule, configured map[string]any) (map[string]any, error) {
	return newOptionsValidator().resolve(rule, configured)
}

// resolve merges the configured options over the rule's defaults and validates the result.
// Rules that are not configurable keep the configured options as is.
func (v *optionsValidator) resolve(rule Rule, configured map[string]any) (map[string]any, error) {
	configurable, ok := rule.(ConfigurableRule)
	if !ok {
		return configured, nil
	}

	merged := make(map[string]any)
	for k, val := range configurable.ConfigDefaults() {
		merged[k] = val
	}
	for k, val := range configured {
		merged[k] = val
	}

	schema, err := v.compile(rule.ID(), configurable.ConfigSchema())
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return merged, nil
	}

	instance, err := toJSONValue(merged)
	if err != nil {
		return nil, fmt.Errorf("rule %s: options are not valid json: %w", rule.ID(), err)
	}

	if err := schema.Validate(instance); err != nil {
		var vErr *jsValidator.ValidationError
		if !errors.As(err, &vErr) {
			return nil, fmt.Errorf("rule %s: invalid options: %w", rule.ID(), err)
		}
		return nil, fmt.Errorf("rule %s: invalid options: %s", rule.ID(), strings.Join(rootCauses(vErr), "; "))
	}

	return merged, nil
}

func (v *optionsValidator) compile(ruleID string, schema map[string]any) (*jsValidator.Schema, error) {
	if len(schema) == 0 {
		return nil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if compiled, ok := v.schemas[ruleID]; ok {
		return compiled, nil
	}

	doc, err := toJSONValue(schema)
	if err != nil {
		return nil, fmt.Errorf("rule %s: options schema is not valid json: %w", ruleID, err)
	}

	url := "rule-options/" + ruleID + ".json"
	c := jsValidator.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("rule %s: invalid options schema: %w", ruleID, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("rule %s: invalid options schema: %w", ruleID, err)
	}

	v.schemas[ruleID] = compiled
	return compiled, nil
}

// toJSONValue converts decoded YAML or Go values into the representation the validator expects.
func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsValidator.UnmarshalJSON(bytes.NewReader(data))
}

func rootCauses(err *jsValidator.ValidationError) []string {
	if len(err.Causes) == 0 {
		location := "/" + strings.Join(err.InstanceLocation, "/")
		return []string{fmt.Sprintf("%s %s", location, err.ErrorKind.LocalizedString(defaultPrinter))}
	}

	var causes []string
	for _, cause := range err.Causes {
		causes = append(causes, rootCauses(cause)...)
	}
	return causes
}

// optionsError reports options that failed validation as a finding of the validation-invalid-options rule.
func optionsError(err error) error {
	return validation.NewValidationError(validation.SeverityError, validation.RuleValidationInvalidOptions, err, nil)
}
