// Package runner executes one leaf job at a time: it materializes the
// leaf's config document, checks that its asset inputs are reachable, runs
// the solver as a blocking external process scoped to the leaf's directory,
// and collects the generated artifacts. Failures are scoped per leaf so a
// batch continues past a broken configuration.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"

	slogctx "github.com/veqryn/slog-context"

	"github.com/HarshM0210/Config-Workflow/artifact"
	"github.com/HarshM0210/Config-Workflow/catalog"
	"github.com/HarshM0210/Config-Workflow/cfgpatch"
	"github.com/HarshM0210/Config-Workflow/executor"
	"github.com/HarshM0210/Config-Workflow/fs"
)

// PlotScriptName is the per-configuration plot script the runner invokes
// when present.
const PlotScriptName = "Plot.py"

// Runner runs leaf jobs against the workspace rooted at Root.
type Runner struct {
	// FS is the workspace filesystem.
	FS *fs.FS
	// Root is the OS path of the workspace root; process working
	// directories are composed against it.
	Root string

	// SolverCommand is the solver invocation, run inside the leaf's
	// configuration directory. Defaults to {"SU2_CFD", "Config.cfg"}.
	SolverCommand []string
	// PlotCommand launches the plot script; the script path is appended.
	// Defaults to {"python3"}. Set to nil to skip plotting.
	PlotCommand []string

	// RedirectOutput mirrors solver output to the console.
	RedirectOutput bool
}

// New creates a Runner with default solver and plot commands.
func New(fsys *fs.FS, root string) *Runner {
	return &Runner{
		FS:            fsys,
		Root:          root,
		SolverCommand: []string{"SU2_CFD", artifact.ConfigFileName},
		PlotCommand:   []string{"python3"},
	}
}

// Run executes one leaf job with the given patched config document and
// returns its collected artifact set. The document is written into the
// leaf's directory as Config.cfg before the solver starts; the base
// document itself is never mutated.
func (r *Runner) Run(ctx context.Context, leaf catalog.LeafJob, doc *cfgpatch.Document) (*artifact.Set, error) {
	log := slogctx.FromCtx(ctx).With(slog.String("leaf", leaf.String()))

	if err := r.checkAssets(ctx, leaf); err != nil {
		return nil, err
	}

	cfgPath := path.Join(leaf.MainPath, artifact.ConfigFileName)
	if err := r.FS.WriteFile(cfgPath, doc.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("materializing config document: %w", err)
	}

	log.Info("starting solver run")
	if err := r.runSolver(ctx, leaf); err != nil {
		return nil, err
	}

	if err := r.verifyOutputs(leaf); err != nil {
		return nil, err
	}
	log.Info("solver run completed")

	if err := r.runPlotScript(ctx, leaf); err != nil {
		// Plot output feeds the destination catalog's plots directory but
		// a plotting failure does not invalidate the solver results.
		log.Warn("plot step failed", slog.String("error", err.Error()))
	}

	return artifact.Collect(r.FS, leaf.MainPath)
}

// checkAssets verifies the leaf's input asset paths. A missing mesh
// directory fails the leaf; a missing restart directory only warns, since
// fresh runs start without a restart solution.
func (r *Runner) checkAssets(ctx context.Context, leaf catalog.LeafJob) error {
	ok, err := r.FS.Exists(leaf.MeshPath)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrAssetsMissing, leaf.MeshPath)
	}

	ok, err = r.FS.Exists(leaf.RestartPath)
	if err != nil {
		return err
	}
	if !ok {
		slogctx.FromCtx(ctx).Warn("restart assets not found, solver starts fresh",
			slog.String("path", leaf.RestartPath))
	}
	return nil
}

func (r *Runner) runSolver(ctx context.Context, leaf catalog.LeafJob) error {
	cmd := executor.New(r.SolverCommand[0], r.SolverCommand[1:]...)
	result, err := cmd.Execute(ctx,
		executor.WithWorkingDir(r.hostPath(leaf.MainPath)),
		executor.WithConsoleRedirect(r.RedirectOutput),
	)
	if err != nil {
		return &SolverError{
			Leaf:     leaf,
			ExitCode: result.ExitCode,
			Detail:   stderrTail(result.Stderr),
		}
	}
	return nil
}

// verifyOutputs rejects a zero-exit run that produced nothing: the solver
// is only considered successful once volume or table output exists.
func (r *Runner) verifyOutputs(leaf catalog.LeafJob) error {
	for _, pattern := range []string{"*.vtu", "*.csv"} {
		matches, err := r.FS.Glob(path.Join(leaf.MainPath, pattern))
		if err != nil {
			return err
		}
		if len(matches) > 0 {
			return nil
		}
	}
	return &SolverError{Leaf: leaf, ExitCode: 0, Detail: "no output files generated"}
}

// runPlotScript invokes the configuration's plot script when both the
// command and the script are present, then gathers the produced images
// into the plots subdirectory.
func (r *Runner) runPlotScript(ctx context.Context, leaf catalog.LeafJob) error {
	if len(r.PlotCommand) == 0 {
		return nil
	}

	scriptPath := path.Join(leaf.MainPath, PlotScriptName)
	ok, err := r.FS.Exists(scriptPath)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	args := append(append([]string(nil), r.PlotCommand[1:]...), PlotScriptName)
	cmd := executor.New(r.PlotCommand[0], args...)
	result, err := cmd.Execute(ctx,
		executor.WithWorkingDir(r.hostPath(leaf.MainPath)),
		executor.WithConsoleRedirect(r.RedirectOutput),
	)
	if err != nil {
		return fmt.Errorf("plot script failed (exit %d): %s", result.ExitCode, stderrTail(result.Stderr))
	}

	return r.gatherPlots(leaf)
}

// gatherPlots moves plot images from the configuration directory into the
// plots subdirectory the publisher expects.
func (r *Runner) gatherPlots(leaf catalog.LeafJob) error {
	for _, pattern := range []string{"*.png", "*.pdf"} {
		matches, err := r.FS.Glob(path.Join(leaf.MainPath, pattern))
		if err != nil {
			return err
		}
		for _, match := range matches {
			dst := path.Join(leaf.MainPath, artifact.PlotsDir, path.Base(match))
			if err := r.FS.CopyFile(match, dst); err != nil {
				return err
			}
			if err := r.FS.Remove(match); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Runner) hostPath(rel string) string {
	return filepath.Join(r.Root, filepath.FromSlash(rel))
}
