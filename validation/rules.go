package validation

const (
	// RuleValidationOpenAPIStructure reports structural problems found while loading the document.
	RuleValidationOpenAPIStructure = "validation-openapi-structure"
	// RuleValidationInvalidReference reports local references that cannot be resolved.
	RuleValidationInvalidReference = "validation-invalid-reference"
	// RuleValidationCircularReference reports $ref chains that only point at each other.
	RuleValidationCircularReference = "validation-circular-reference"
	// RuleValidationInvalidOptions reports rule options that do not match the rule's option schema.
	RuleValidationInvalidOptions = "validation-invalid-options"
)
