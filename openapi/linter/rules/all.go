package rules

import (
	"github.com/speakeasy-api/openapi-schema-lint/linter"
	"github.com/speakeasy-api/openapi-schema-lint/openapi"
)

// All returns a new instance of every built-in rule.
func All() []linter.RuleRunner[*openapi.Document] {
	return []linter.RuleRunner[*openapi.Document]{
		&ArrayBoundaryRule{},
		&ArrayItemsRule{},
		&NumericBoundaryRule{},
		&ObjectBoundaryRule{},
		&StringBoundaryRule{},
		&PropertyCaseCollisionRule{},
		&PropertyConsistentTypeRule{},
		&DiscriminatorPropertyDefinedRule{},
		&RequiredPropertyDefinedRule{},
		&WellDefinedDictionariesRule{},
		&PaginationStyleRule{},
		&CollectionArrayPropertyRule{},
		&ResourceResponseConsistencyRule{},
		&SecuritySchemeReferencesRule{},
		&NoRefSiblingsRule{},
	}
}
