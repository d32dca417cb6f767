// Package pointer provides helpers for the optional fields of lint configuration.
package pointer

// From returns a pointer to a copy of v, for setting optional fields such as RuleConfig.Enabled.
func From[T any](v T) *T {
	return &v
}
