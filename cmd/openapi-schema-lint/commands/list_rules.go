package commands

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/speakeasy-api/openapi-schema-lint/linter"
	openapiLinter "github.com/speakeasy-api/openapi-schema-lint/openapi/linter"
	"github.com/spf13/cobra"
)

type listRulesOptions struct {
	format   string
	category string
	ruleset  string
}

func newListRulesCommand() *cobra.Command {
	o := &listRulesOptions{}

	cmd := &cobra.Command{
		Use:   "list-rules",
		Short: "List all available linting rules",
		Long: `List all available linting rules with their metadata.

Shows each rule's ID, category, default severity and summary.
Use --category to filter by category, or --ruleset to show only rules in a ruleset.

Examples:
  openapi-schema-lint list-rules
  openapi-schema-lint list-rules --category security
  openapi-schema-lint list-rules --ruleset recommended
  openapi-schema-lint list-rules --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&o.format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().StringVar(&o.category, "category", "", "Filter by category (e.g., schemas, operations, security, style)")
	cmd.Flags().StringVar(&o.ruleset, "ruleset", "", "Filter by ruleset (e.g., recommended, security, all)")

	return cmd
}

type ruleInfo struct {
	ID              string   `json:"id"`
	Category        string   `json:"category"`
	DefaultSeverity string   `json:"defaultSeverity"`
	Summary         string   `json:"summary"`
	Link            string   `json:"link,omitempty"`
	Versions        []string `json:"versions,omitempty"`
	Rulesets        []string `json:"rulesets"`
}

func (o *listRulesOptions) run(w io.Writer) error {
	lint, err := openapiLinter.NewLinter(linter.NewConfig())
	if err != nil {
		return fmt.Errorf("failed to create linter: %w", err)
	}

	registry := lint.Registry()

	var infos []ruleInfo
	for _, rule := range registry.AllRules() {
		if o.category != "" && rule.Category() != o.category {
			continue
		}

		rulesets := registry.RulesetsContaining(rule.ID())
		if o.ruleset != "" && !slices.Contains(rulesets, o.ruleset) {
			continue
		}

		infos = append(infos, ruleInfo{
			ID:              rule.ID(),
			Category:        rule.Category(),
			DefaultSeverity: rule.DefaultSeverity().String(),
			Summary:         rule.Summary(),
			Link:            rule.Link(),
			Versions:        rule.Versions(),
			Rulesets:        rulesets,
		})
	}

	switch o.format {
	case "json":
		return printRulesJSON(w, infos)
	case "text":
		printRulesText(w, infos, registry.AllCategories())
		return nil
	default:
		return fmt.Errorf("unknown format %q, expected text or json", o.format)
	}
}

func printRulesText(w io.Writer, infos []ruleInfo, categories []string) {
	if len(infos) == 0 {
		fmt.Fprintln(w, "No rules found matching the specified filters.")
		return
	}

	byCategory := make(map[string][]ruleInfo)
	for _, info := range infos {
		byCategory[info.Category] = append(byCategory[info.Category], info)
	}

	for _, cat := range categories {
		rules, ok := byCategory[cat]
		if !ok {
			continue
		}

		fmt.Fprintf(w, "\n%s (%d rules)\n", strings.ToUpper(cat), len(rules))
		fmt.Fprintln(w, strings.Repeat("─", 80))

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, info := range rules {
			fmt.Fprintf(tw, "  %s\t%s\t[%s]\n", info.ID, info.Summary, info.DefaultSeverity)
			if len(info.Versions) > 0 {
				fmt.Fprintf(tw, "  \tOpenAPI: %s\n", strings.Join(info.Versions, ", "))
			}
			fmt.Fprintf(tw, "  \tRulesets: %s\n", strings.Join(info.Rulesets, ", "))
		}
		tw.Flush()
	}

	fmt.Fprintf(w, "\n%d rules total\n", len(infos))
}

func printRulesJSON(w io.Writer, infos []ruleInfo) error {
	if infos == nil {
		infos = []ruleInfo{}
	}
	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}
