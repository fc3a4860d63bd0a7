package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/HarshM0210/Config-Workflow/cfgpatch"
	"github.com/HarshM0210/Config-Workflow/cleanup"
	"github.com/HarshM0210/Config-Workflow/gitstore"
	"github.com/HarshM0210/Config-Workflow/pipeline"
	"github.com/HarshM0210/Config-Workflow/publish"
	"github.com/HarshM0210/Config-Workflow/runner"
)

type runFlags struct {
	selectorFlags

	resultsURL  string
	resultsPath string
	branch      string
	scratchDir  string
	token       string
	push        bool

	solverCmd []string
	plotCmd   []string
	redirect  bool

	defaultsFile  string
	overridesFile string
	sets          []string
}

func newRunCmd(root *rootOptions) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the selected validation configurations and publish their results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, root, flags)
		},
	}

	flags.register(cmd)
	fl := cmd.Flags()
	fl.StringVar(&flags.resultsURL, "results-url", "", "Remote results repository URL")
	fl.StringVar(&flags.resultsPath, "results-path", "", "Local results repository path (mutually exclusive with --results-url)")
	fl.StringVar(&flags.branch, "branch", "", "Publishing branch (defaults to results/<target>-<author>)")
	fl.StringVar(&flags.scratchDir, "scratch-dir", "", "Clone directory for remote stores (defaults under the user cache dir)")
	fl.StringVar(&flags.token, "token", os.Getenv("GITHUB_TOKEN"), "Access token for the results remote (defaults to $GITHUB_TOKEN)")
	fl.BoolVar(&flags.push, "push", true, "Push the results commit to the remote")
	fl.StringSliceVar(&flags.solverCmd, "solver-cmd", nil, "Solver command override (default SU2_CFD Config.cfg)")
	fl.StringSliceVar(&flags.plotCmd, "plot-cmd", nil, "Plot script interpreter override (default python3)")
	fl.BoolVar(&flags.redirect, "show-output", false, "Mirror solver output to the console")
	fl.StringVar(&flags.defaultsFile, "defaults-file", "", "YAML file with the lowest-precedence config overrides")
	fl.StringVar(&flags.overridesFile, "overrides-file", "", "YAML file with custom config overrides")
	fl.StringSliceVar(&flags.sets, "set", nil, "Config override as KEY=VALUE, highest precedence (repeatable)")

	return cmd
}

func runBatch(cmd *cobra.Command, root *rootOptions, flags *runFlags) error {
	ctx := cmd.Context()

	fsys, tree, workRoot, err := root.openTree()
	if err != nil {
		return err
	}

	sel := flags.selector()
	defaults, custom, err := loadOverrideTiers(flags)
	if err != nil {
		return err
	}

	author := flags.author
	if author == "" {
		author = "vandv"
	}
	branch := flags.branch
	if branch == "" {
		branch = fmt.Sprintf("results/%s-%s", sel.RunTarget(), author)
	}
	scratch := flags.scratchDir
	if scratch == "" {
		scratch = filepath.Join(xdg.CacheHome, "vandv", "results")
	}

	var auth gitstore.AuthProvider
	if flags.token != "" {
		auth = &gitstore.TokenAuth{Token: flags.token}
	}
	store, err := publish.OpenStore(ctx, publish.StoreConfig{
		RemoteURL:  flags.resultsURL,
		LocalPath:  flags.resultsPath,
		ScratchDir: scratch,
		Branch:     branch,
		Auth:       auth,
	})
	if err != nil {
		return err
	}

	r := runner.New(fsys, workRoot)
	if len(flags.solverCmd) > 0 {
		r.SolverCommand = flags.solverCmd
	}
	if len(flags.plotCmd) > 0 {
		r.PlotCommand = flags.plotCmd
	}
	r.RedirectOutput = flags.redirect

	p := &pipeline.Pipeline{
		FS:     fsys,
		Tree:   tree,
		Runner: r,
		Publisher: &publish.Publisher{
			Workspace: fsys,
			Store:     store,
			Author: gitstore.Signature{
				Name:  author,
				Email: author + "@users.noreply.github.com",
				When:  time.Now(),
			},
			PushEnabled: flags.push && flags.resultsURL != "",
		},
		Cleaner:  &cleanup.Cleaner{FS: fsys},
		Defaults: defaults,
		Custom:   custom,
	}

	summary, err := p.Execute(ctx, sel)
	if err != nil {
		if pipeline.IsNotFound(err) {
			return fmt.Errorf("selector matched nothing: %w", err)
		}
		return err
	}

	printSummary(cmd, summary)
	return nil
}

// loadOverrideTiers assembles the defaults tier and the custom tier. The
// custom tier is the overrides file, with --set entries appended so they win
// within the tier.
func loadOverrideTiers(flags *runFlags) (defaults, custom cfgpatch.Overrides, err error) {
	if flags.defaultsFile != "" {
		defaults, err = readOverridesFile(flags.defaultsFile)
		if err != nil {
			return nil, nil, err
		}
	}
	if flags.overridesFile != "" {
		custom, err = readOverridesFile(flags.overridesFile)
		if err != nil {
			return nil, nil, err
		}
	}
	for _, kv := range flags.sets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, nil, fmt.Errorf("invalid override %q, expected KEY=VALUE", kv)
		}
		custom = append(custom, cfgpatch.Override{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
	}
	return defaults, custom, nil
}

func readOverridesFile(name string) (cfgpatch.Overrides, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading overrides file: %w", err)
	}
	tier, err := cfgpatch.ParseOverridesYAML(data)
	if err != nil {
		return nil, fmt.Errorf("overrides file %s: %w", name, err)
	}
	return tier, nil
}

func printSummary(cmd *cobra.Command, summary *pipeline.Summary) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Run %s (%s): %d succeeded, %d failed\n",
		summary.RunID, summary.Target, summary.Succeeded(), summary.Failed())
	for _, o := range summary.Outcomes {
		if o.Succeeded() {
			fmt.Fprintf(out, "  ok    %s\n", o.Leaf.Key())
		} else {
			fmt.Fprintf(out, "  FAIL  %s: %v\n", o.Leaf.Key(), o.Err)
		}
	}
	if summary.Publish != nil {
		fmt.Fprintf(out, "Publish: %s\n", summary.Publish.Outcome)
		if summary.Publish.Outcome == publish.OutcomeCommitted {
			fmt.Fprintf(out, "Commit: %s\n", summary.Publish.CommitHash)
		}
	}
}
