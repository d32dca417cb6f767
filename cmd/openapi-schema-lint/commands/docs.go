package commands

import (
	"fmt"
	"io"

	"github.com/speakeasy-api/openapi-schema-lint/linter"
	openapiLinter "github.com/speakeasy-api/openapi-schema-lint/openapi/linter"
	"github.com/spf13/cobra"
)

func newDocsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Generate the rule reference",
		Long: `Generate the reference documentation of every built-in rule, including examples,
rationale and configurable options.

Examples:
  openapi-schema-lint docs > RULES.md
  openapi-schema-lint docs --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeDocs(cmd.OutOrStdout(), format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "Output format: markdown or json")

	return cmd
}

func writeDocs(w io.Writer, format string) error {
	lint, err := openapiLinter.NewLinter(linter.NewConfig())
	if err != nil {
		return fmt.Errorf("failed to create linter: %w", err)
	}

	docGen := linter.NewDocGenerator(lint.Registry())

	switch format {
	case "markdown":
		return docGen.WriteMarkdown(w)
	case "json":
		return docGen.WriteJSON(w)
	default:
		return fmt.Errorf("unknown format %q, expected markdown or json", format)
	}
}
