// Package commands implements the openapi-schema-lint command line interface.
package commands

import (
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

// StdinIndicator is the conventional Unix indicator to read from stdin.
const StdinIndicator = "-"

// IsStdin returns true if the given path indicates stdin should be used.
func IsStdin(path string) bool {
	return path == StdinIndicator
}

// BuildInfo identifies the running binary. Empty fields are filled from the Go build info.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// resolve returns the build info, prioritizing ldflags values over the Go build info.
func (b BuildInfo) resolve() BuildInfo {
	if b.Version == "" {
		b.Version = "dev"
	}
	if b.Version != "dev" || b.Commit != "" || b.Date != "" {
		return b
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}

	if buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		b.Version = buildInfo.Main.Version
	}

	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			b.Commit = setting.Value
			if len(b.Commit) >= 7 {
				b.Commit = b.Commit[:7] // Short commit hash
			}
		case "vcs.time":
			b.Date = setting.Value
		}
	}

	return b
}

func (b BuildInfo) template() string {
	var versionTemplate strings.Builder
	versionTemplate.WriteString(`{{printf "%s" .Version}}`)

	if b.Commit != "" {
		versionTemplate.WriteString("\nBuild: " + b.Commit)
	}
	if b.Date != "" {
		versionTemplate.WriteString("\nBuilt: " + b.Date)
	}
	versionTemplate.WriteString("\n")

	return versionTemplate.String()
}

// NewRootCommand creates the openapi-schema-lint command with all of its subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	info = info.resolve()

	rootCmd := &cobra.Command{
		Use:   "openapi-schema-lint",
		Short: "Lint OpenAPI documents for schema, operation and security consistency",
		Long: `A linter for OpenAPI 3.x documents focused on the problems code generators and
validators trip over:

- Schemas without boundaries or element types, and boundaries that contradict each other
- Required and discriminator properties that no composition branch defines
- Properties whose type or casing drifts across the document
- Collection, pagination and resource responses that disagree with each other
- Security schemes and scopes that are undefined, misused or never used`,
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(info.template())

	rootCmd.AddCommand(newLintCommand())
	rootCmd.AddCommand(newListRulesCommand())
	rootCmd.AddCommand(newDocsCommand())

	return rootCmd
}
