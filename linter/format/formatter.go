// Package format renders lint results for humans and machines.
package format

import (
	"errors"
	"strings"

	"github.com/speakeasy-api/openapi-schema-lint/validation"
)

type Formatter interface {
	Format(results []error) (string, error)
}

type counts struct {
	errors   int
	warnings int
	hints    int
}

func (c *counts) add(severity validation.Severity) {
	switch severity {
	case validation.SeverityError:
		c.errors++
	case validation.SeverityWarning:
		c.warnings++
	case validation.SeverityHint:
		c.hints++
	}
}

// ruleCategory returns the prefix of a rule ID before its first dash.
func ruleCategory(rule string) string {
	if idx := strings.Index(rule, "-"); idx > 0 {
		return rule[:idx]
	}
	return "unknown"
}

func asValidationError(err error) (*validation.Error, bool) {
	var vErr *validation.Error
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
