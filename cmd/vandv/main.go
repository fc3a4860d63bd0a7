// vandv automates SU2 validation sweeps: it resolves case selectors over
// the workspace catalog, runs the solver per configuration, publishes
// results to a git repository, and cleans the workspace afterwards.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/HarshM0210/Config-Workflow/cli"
)

// version is set through ldflags at build time.
var version = "dev"

func main() {
	rootCmd := cli.NewRootCmd(version)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
