package format

import (
	"fmt"
	"strings"

	"github.com/logrusorgru/aurora/v3"
	"github.com/speakeasy-api/openapi-schema-lint/validation"
)

type TextFormatter struct {
	au aurora.Aurora
}

type TextOption func(*TextFormatter)

// WithColor enables ANSI colors for severities and the summary line.
func WithColor(enabled bool) TextOption {
	return func(f *TextFormatter) {
		f.au = aurora.NewAurora(enabled)
	}
}

func NewTextFormatter(opts ...TextOption) *TextFormatter {
	f := &TextFormatter{au: aurora.NewAurora(false)}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *TextFormatter) Format(results []error) (string, error) {
	var sb strings.Builder
	var c counts

	for _, err := range results {
		vErr, ok := asValidationError(err)
		if !ok {
			fmt.Fprintf(&sb, "-\t-\t%s\tinternal\t%s\n", f.severity(validation.SeverityError), err.Error())
			c.errors++
			continue
		}

		msg := vErr.GetMessage()
		if vErr.DocumentLocation != "" {
			msg = fmt.Sprintf("%s (document: %s)", msg, vErr.DocumentLocation)
		}

		fmt.Fprintf(&sb, "%d:%d\t%s\t%s\t%s\n", vErr.GetLineNumber(), vErr.GetColumnNumber(), f.severity(vErr.Severity), f.au.Faint(vErr.Rule), msg)
		c.add(vErr.Severity)
	}

	if len(results) > 0 {
		sb.WriteString("\n")
		summary := fmt.Sprintf("✖ %d problems (%d errors, %d warnings, %d hints)", len(results), c.errors, c.warnings, c.hints)
		if c.errors > 0 {
			sb.WriteString(f.au.Bold(f.au.Red(summary)).String())
		} else {
			sb.WriteString(f.au.Bold(f.au.Yellow(summary)).String())
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func (f *TextFormatter) severity(s validation.Severity) aurora.Value {
	switch s {
	case validation.SeverityError:
		return f.au.Red(s.String())
	case validation.SeverityWarning:
		return f.au.Yellow(s.String())
	default:
		return f.au.Cyan(s.String())
	}
}
