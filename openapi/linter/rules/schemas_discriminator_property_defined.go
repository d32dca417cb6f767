package rules

import (
	"context"

	"github.com/speakeasy-api/openapi-schema-lint/jsonschema/compose"
	"github.com/speakeasy-api/openapi-schema-lint/linter"
	"github.com/speakeasy-api/openapi-schema-lint/openapi"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
)

const RuleSchemasDiscriminatorPropertyDefined = "schemas-discriminator-property-defined"

type DiscriminatorPropertyDefinedRule struct{}

func (r *DiscriminatorPropertyDefinedRule) ID() string {
	return RuleSchemasDiscriminatorPropertyDefined
}
func (r *DiscriminatorPropertyDefinedRule) Category() string { return CategorySchemas }
func (r *DiscriminatorPropertyDefinedRule) Description() string {
	return "The `discriminator.propertyName` of a schema must be defined as a property in every `oneOf`/`anyOf` branch the schema resolves to. Properties from `allOf` members are merged, so one member defining it is enough."
}
func (r *DiscriminatorPropertyDefinedRule) Summary() string {
	return "Discriminator properties must be defined in every branch."
}
func (r *DiscriminatorPropertyDefinedRule) Link() string {
	return ruleLink(RuleSchemasDiscriminatorPropertyDefined)
}
func (r *DiscriminatorPropertyDefinedRule) DefaultSeverity() validation.Severity {
	return validation.SeverityError
}
func (r *DiscriminatorPropertyDefinedRule) Versions() []string {
	return nil
}

func (r *DiscriminatorPropertyDefinedRule) Run(ctx context.Context, docInfo *linter.DocumentInfo[*openapi.Document], config *linter.RuleConfig) []error {
	if !hasIndex(docInfo) {
		return nil
	}

	res := resolverFor(docInfo)

	var errs []error
	for _, schema := range docInfo.Index.GetAllSchemas() {
		if err := ctx.Err(); err != nil {
			return append(errs, err)
		}
		if schema.Negated {
			continue
		}

		discriminator, ok := schema.Discriminator()
		if !ok {
			continue
		}

		failing, err := res.Failing(schema.Schema, compose.DefinesProperty(discriminator.PropertyName))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(failing) == 0 {
			continue
		}

		branch := failing[0].Context
		if len(branch) == 0 {
			errs = append(errs, finding(r, config, discriminator.Node, discriminator.Location, "discriminator property %q is not defined", discriminator.PropertyName))
			continue
		}
		errs = append(errs, finding(r, config, discriminator.Node, discriminator.Location, "discriminator property %q is not defined in every branch, missing from %s", discriminator.PropertyName, branch))
	}

	return errs
}
