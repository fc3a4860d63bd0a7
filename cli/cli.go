// Package cli assembles the vandv command tree: run a validation sweep,
// preview what a selector resolves to, and extract config documents for
// inspection.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	slogctx "github.com/veqryn/slog-context"

	"github.com/HarshM0210/Config-Workflow/catalog"
	"github.com/HarshM0210/Config-Workflow/fs"
)

// rootOptions carries the persistent flags shared by every subcommand.
type rootOptions struct {
	logLevel  string
	logFormat string

	workspace   string
	catalogRoot string
	assetsRoot  string
}

// NewRootCmd builds the vandv root command.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "vandv",
		Short:         "SU2 validation case automation",
		Long:          "vandv resolves validation case selectors, runs the SU2 solver per configuration, publishes results to a git repository, and cleans the workspace.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log := newLogger(opts.logLevel, opts.logFormat, cmd.ErrOrStderr())
			cmd.SetContext(slogctx.NewCtx(cmd.Context(), log))
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&opts.logFormat, "log-format", "text", "Log format (text, json)")
	pf.StringVar(&opts.workspace, "workspace", ".", "Workspace root directory")
	pf.StringVar(&opts.catalogRoot, "catalog-root", "ValidationCases", "Case catalog directory, relative to the workspace")
	pf.StringVar(&opts.assetsRoot, "assets-root", "Assets", "Mesh and restart assets directory, relative to the workspace")

	cmd.AddCommand(
		newRunCmd(opts),
		newListCmd(opts),
		newConfigCmd(opts),
	)

	return cmd
}

// openTree loads the case catalog rooted at the workspace and returns the
// workspace filesystem, the tree, and the workspace's absolute OS path.
func (o *rootOptions) openTree() (*fs.FS, *catalog.Tree, string, error) {
	root, err := filepath.Abs(o.workspace)
	if err != nil {
		return nil, nil, "", fmt.Errorf("resolving workspace path: %w", err)
	}
	if _, err := os.Stat(root); err != nil {
		return nil, nil, "", fmt.Errorf("workspace %s: %w", root, err)
	}

	fsys := fs.NewOSFS(root)
	tree, err := catalog.Load(fsys, catalog.Roots{
		Catalog: o.catalogRoot,
		Assets:  o.assetsRoot,
		Results: "Results",
	})
	if err != nil {
		return nil, nil, "", err
	}
	return fsys, tree, root, nil
}

// selectorFlags binds the four selector levels plus the author.
type selectorFlags struct {
	category        string
	caseName        string
	turbulenceModel string
	configuration   string
	author          string
}

func (f *selectorFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.category, "category", catalog.All, "Case category, or All")
	fl.StringVar(&f.caseName, "case", catalog.All, "Validation case, or All")
	fl.StringVar(&f.turbulenceModel, "model", catalog.All, "Turbulence model, or All")
	fl.StringVar(&f.configuration, "config", catalog.All, "Configuration directory, or All")
	fl.StringVar(&f.author, "author", "", "Author recorded on the results commit")
}

func (f *selectorFlags) selector() catalog.Selector {
	return catalog.Selector{
		Category:        f.category,
		Case:            f.caseName,
		TurbulenceModel: f.turbulenceModel,
		Configuration:   f.configuration,
		Author:          f.author,
	}
}
