package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/speakeasy-api/openapi-schema-lint/validation"
)

// SummaryFormatter formats results as a per-rule summary table.
type SummaryFormatter struct{}

// NewSummaryFormatter creates a new SummaryFormatter.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

type ruleSummary struct {
	rule     string
	category string
	severity validation.Severity
	count    int
}

// Format outputs a per-rule summary table sorted by count descending.
func (f *SummaryFormatter) Format(results []error) (string, error) {
	byRule := make(map[string]*ruleSummary)
	var c counts

	record := func(rule, category string, severity validation.Severity) {
		rs, ok := byRule[rule]
		if !ok {
			rs = &ruleSummary{rule: rule, category: category, severity: severity}
			byRule[rule] = rs
		}
		rs.count++
		c.add(severity)
	}

	for _, err := range results {
		if vErr, ok := asValidationError(err); ok {
			record(vErr.Rule, ruleCategory(vErr.Rule), vErr.Severity)
		} else {
			record("internal", "internal", validation.SeverityError)
		}
	}

	sorted := make([]*ruleSummary, 0, len(byRule))
	for _, rs := range byRule {
		sorted = append(sorted, rs)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].rule < sorted[j].rule
	})

	var sb strings.Builder

	fmt.Fprintf(&sb, "%-50s %8s %10s %8s\n", "Rule", "Severity", "Category", "Count")
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")

	for _, rs := range sorted {
		fmt.Fprintf(&sb, "%-50s %8s %10s %8d\n", rs.rule, rs.severity, rs.category, rs.count)
	}

	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "✖ %d problems (%d errors, %d warnings, %d hints) across %d rules\n",
		len(results), c.errors, c.warnings, c.hints, len(byRule))

	return sb.String(), nil
}
