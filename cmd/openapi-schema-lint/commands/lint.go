package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/speakeasy-api/openapi-schema-lint/errors"
	"github.com/speakeasy-api/openapi-schema-lint/linter"
	"github.com/speakeasy-api/openapi-schema-lint/openapi"
	openapiLinter "github.com/speakeasy-api/openapi-schema-lint/openapi/linter"
	"github.com/speakeasy-api/openapi-schema-lint/pointer"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ErrLintFailed is returned when a lint run reports error severity findings.
const ErrLintFailed = errors.Error("linting found errors")

type lintOptions struct {
	format         string
	ruleset        string
	configFile     string
	disableRules   []string
	summary        bool
	skipValidation bool
	noColor        bool
}

func newLintCommand() *cobra.Command {
	o := &lintOptions{}

	cmd := &cobra.Command{
		Use:   "lint <file>",
		Short: "Lint the schemas, operations and security of an OpenAPI document",
		Long: `Lint an OpenAPI document with schema, operation and security consistency rules.

The document is first checked for structural validity (OpenAPI 3.0.x documents only),
then every enabled rule runs against it. Findings are printed to stdout, progress and
timing to stderr. The command exits with status 1 when any error severity finding is reported.

Use '-' as the file argument to read from stdin:
  cat openapi.yaml | openapi-schema-lint lint -

CONFIGURATION:

By default, the linter looks for a configuration file at ~/.openapi/schema-lint.yaml.
Use --config to specify a custom configuration file.

Available rulesets: all (default), recommended, schemas, operations, security, style

Example configuration (schema-lint.yaml):

  extends: recommended

  rules:
    schemas-string-boundary:
      severity: hint
      options:
        exemptFormats: [uuid, date-time]
    operations-pagination-style:
      enabled: false

  ignores:
    - rule: schemas-array-boundary
      path: $.components.schemas.LegacyList`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return o.validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()

			err := o.run(cmd, args[0])
			reportElapsed(cmd.ErrOrStderr(), "Linting", time.Since(start))

			return err
		},
	}

	cmd.Flags().StringVarP(&o.format, "format", "f", string(linter.OutputFormatText), "Output format: text, json or summary (default loads from config)")
	cmd.Flags().StringVarP(&o.ruleset, "ruleset", "r", "", "Ruleset to use (default loads from config)")
	cmd.Flags().StringVarP(&o.configFile, "config", "c", "", "Path to lint config file (default: ~/.openapi/schema-lint.yaml)")
	cmd.Flags().StringSliceVarP(&o.disableRules, "disable", "d", nil, "Rule IDs to disable (can be repeated)")
	cmd.Flags().BoolVar(&o.summary, "summary", false, "Print a per-rule summary table of findings")
	cmd.Flags().BoolVar(&o.skipValidation, "skip-validation", false, "Skip structural validation of the document")
	cmd.Flags().BoolVar(&o.noColor, "no-color", false, "Disable colored text output")

	return cmd
}

func (o *lintOptions) validate() error {
	switch linter.OutputFormat(o.format) {
	case linter.OutputFormatText, linter.OutputFormatJSON, linter.OutputFormatSummary:
		return nil
	default:
		return fmt.Errorf("unknown format %q, expected text, json or summary", o.format)
	}
}

func (o *lintOptions) run(cmd *cobra.Command, file string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	config, err := o.buildConfig(cmd.Flags().Changed("format"))
	if err != nil {
		return err
	}

	lint, err := openapiLinter.NewLinter(config)
	if err != nil {
		return fmt.Errorf("failed to create linter: %w", err)
	}
	if err := checkRuleReferences(lint, config.Extends, o.disableRules); err != nil {
		return err
	}

	doc, location, validationErrors, err := o.readDocument(ctx, cmd.InOrStdin(), stderr, file)
	if err != nil {
		return err
	}

	output, err := lint.Lint(ctx, linter.NewDocumentInfo(doc, location), validationErrors, nil)
	if err != nil {
		return fmt.Errorf("linting failed: %w", err)
	}
	output.Color = !o.noColor && isTerminal(stdout)

	if output.Format == linter.OutputFormatText || output.Format == "" {
		displayFile := file
		if IsStdin(file) {
			displayFile = "stdin"
		}
		fmt.Fprintf(stdout, "%s\n", displayFile)
	}
	fmt.Fprintln(stdout, output.Render())

	if o.summary && output.Format != linter.OutputFormatSummary {
		fmt.Fprintln(stdout, output.FormatSummary())
	}

	if output.HasErrors() {
		return ErrLintFailed.Wrapf("%d errors", output.ErrorCount())
	}

	return nil
}

func (o *lintOptions) readDocument(ctx context.Context, stdin io.Reader, stderr io.Writer, file string) (*openapi.Document, string, []error, error) {
	var reader io.Reader
	var location string

	if IsStdin(file) {
		fmt.Fprintf(stderr, "Linting OpenAPI document from stdin\n")
		reader = stdin
		location = "stdin"
	} else {
		cleanFile := filepath.Clean(file)

		absPath, err := filepath.Abs(cleanFile)
		if err != nil {
			return nil, "", nil, fmt.Errorf("failed to get absolute path: %w", err)
		}
		location = absPath

		fmt.Fprintf(stderr, "Linting OpenAPI document: %s\n", cleanFile)

		f, err := os.Open(cleanFile)
		if err != nil {
			return nil, "", nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()
		reader = f
	}

	opts := []openapi.Option[openapi.UnmarshalOptions]{openapi.WithLocation(location)}
	if o.skipValidation {
		opts = append(opts, openapi.WithSkipValidation())
	}

	doc, validationErrors, err := openapi.Unmarshal(ctx, reader, opts...)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}

	return doc, location, validationErrors, nil
}

// buildConfig loads the configuration file and applies the command line overrides on top of it.
func (o *lintOptions) buildConfig(formatChanged bool) (*linter.Config, error) {
	config := linter.NewConfig()

	if o.configFile != "" {
		loaded, err := linter.LoadConfigFromFile(o.configFile)
		if err != nil {
			return nil, err
		}
		config = loaded
	} else if defaultPath, err := linter.DefaultConfigPath(); err == nil {
		loaded, err := linter.LoadConfigFromFile(defaultPath)
		switch {
		case err == nil:
			config = loaded
		case !linter.IsConfigNotFound(err):
			return nil, fmt.Errorf("%s: %w", defaultPath, err)
		}
	}

	if o.ruleset != "" {
		config.Extends = []string{o.ruleset}
	}

	for _, id := range o.disableRules {
		ruleConfig := config.Rules[id]
		ruleConfig.Enabled = pointer.From(false)
		config.Rules[id] = ruleConfig
	}

	if formatChanged || config.OutputFormat == "" {
		config.OutputFormat = linter.OutputFormat(o.format)
	}

	return config, nil
}

// checkRuleReferences rejects rulesets and rule IDs the linter does not know, which would
// otherwise silently lint nothing.
func checkRuleReferences(lint *openapiLinter.Linter, rulesets []string, ruleIDs []string) error {
	registry := lint.Registry()

	known := registry.AllRulesets()
	for _, ruleset := range rulesets {
		if !slices.Contains(known, ruleset) {
			return linter.ErrInvalidConfig.Wrapf("unknown ruleset %q, available rulesets: %v", ruleset, known)
		}
	}

	for _, id := range ruleIDs {
		if _, ok := registry.GetRule(id); !ok {
			return linter.ErrInvalidConfig.Wrapf("unknown rule %q", id)
		}
	}

	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
