package rules

// Rule categories for OpenAPI linting

const (
	// CategorySchemas represents rules that check schema shapes and composition
	// Examples: array items presence, min/max ordering, discriminator properties
	CategorySchemas = "schemas"

	// CategoryOperations represents rules that check the request and response shapes of operations
	// Examples: pagination parameters, collection properties, resource response consistency
	CategoryOperations = "operations"

	// CategorySecurity represents rules that check security schemes and their use
	CategorySecurity = "security"

	// CategoryStyle represents rules that check formatting conventions that do not affect behavior
	CategoryStyle = "style"
)
