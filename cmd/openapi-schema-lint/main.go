package main

import (
	"fmt"
	"os"

	"github.com/speakeasy-api/openapi-schema-lint/cmd/openapi-schema-lint/commands"
)

// Set via ldflags by release builds.
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	rootCmd := commands.NewRootCommand(commands.BuildInfo{Version: version, Commit: commit, Date: date})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
