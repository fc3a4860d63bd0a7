package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HarshM0210/Config-Workflow/catalog"
	"github.com/HarshM0210/Config-Workflow/cfgpatch"
	"github.com/HarshM0210/Config-Workflow/cleanup"
	"github.com/HarshM0210/Config-Workflow/fs"
	"github.com/HarshM0210/Config-Workflow/gitstore"
	"github.com/HarshM0210/Config-Workflow/publish"
	"github.com/HarshM0210/Config-Workflow/runner"
)

const caseConfig = "% base template\nSOLVER= RANS\nMACH_NUMBER= 0.2\n"

// setupPipeline builds an OS-backed workspace with the Basic/2DML case
// (SA and SST, two configurations each), an in-memory results store, and a
// shell-script solver.
func setupPipeline(t *testing.T, solverScript string) *Pipeline {
	t.Helper()

	root := t.TempDir()
	fsys := fs.NewOSFS(root)

	caseDir := "ValidationCases/Basic/2DML"
	require.NoError(t, fsys.WriteFile(caseDir+"/Config.cfg", []byte(caseConfig), 0o644))
	for _, model := range []string{"SA", "SST"} {
		for _, config := range []string{"Configuration1", "Configuration2"} {
			require.NoError(t, fsys.MkdirAll(caseDir+"/"+model+"/"+config, 0o755))
		}
		require.NoError(t, fsys.MkdirAll("Assets/Basic/2DML/"+model+"/restart", 0o755))
	}
	require.NoError(t, fsys.MkdirAll("Assets/Basic/2DML/mesh", 0o755))

	tree, err := catalog.Load(fsys, catalog.Roots{
		Catalog: "ValidationCases",
		Assets:  "Assets",
		Results: "Results",
	})
	require.NoError(t, err)

	r := runner.New(fsys, root)
	r.SolverCommand = []string{"sh", "-c", solverScript}
	r.PlotCommand = nil

	storeFS := fs.NewInMemoryFS()
	repo, err := gitstore.Init(context.Background(), &gitstore.Options{FS: storeFS})
	require.NoError(t, err)

	return &Pipeline{
		FS:     fsys,
		Tree:   tree,
		Runner: r,
		Publisher: &publish.Publisher{
			Workspace: fsys,
			Store:     &publish.Store{Repo: repo, FS: storeFS},
			Author: gitstore.Signature{
				Name:  "Harsh M",
				Email: "harsh@example.com",
				When:  time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC),
			},
		},
		Cleaner: &cleanup.Cleaner{FS: fsys},
	}
}

func fullSelector() catalog.Selector {
	return catalog.Selector{
		Category:        "Basic",
		Case:            "2DML",
		TurbulenceModel: catalog.All,
		Configuration:   catalog.All,
		Author:          "harsh",
	}
}

func TestExecuteFullBatch(t *testing.T) {
	p := setupPipeline(t, "printf '0,1.0\\n' > history.csv")

	summary, err := p.Execute(context.Background(), fullSelector())
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Succeeded())
	assert.Equal(t, 0, summary.Failed())
	require.NotNil(t, summary.Publish)
	assert.Equal(t, publish.OutcomeCommitted, summary.Publish.Outcome)

	// All four leaves landed in the store under their composite keys.
	for _, key := range []string{
		"2DML/2DML_SA_Configuration1",
		"2DML/2DML_SA_Configuration2",
		"2DML/2DML_SST_Configuration1",
		"2DML/2DML_SST_Configuration2",
	} {
		exists, err := p.Publisher.Store.FS.Exists(key + "/history.csv")
		require.NoError(t, err)
		assert.True(t, exists, key)
	}
}

func TestExecuteIsolatesSolverFailure(t *testing.T) {
	// The solver fails only in SST/Configuration2; the other three leaves
	// must still run and publish.
	p := setupPipeline(t, `case "$PWD" in */SST/Configuration2) exit 1;; esac; printf 'h\n' > history.csv`)

	summary, err := p.Execute(context.Background(), fullSelector())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Succeeded())
	assert.Equal(t, 1, summary.Failed())
	assert.Equal(t, publish.OutcomeCommitted, summary.Publish.Outcome)

	exists, err := p.Publisher.Store.FS.Exists("2DML/2DML_SST_Configuration2")
	require.NoError(t, err)
	assert.False(t, exists, "failed leaf must contribute no files to the destination")

	var failed *LeafOutcome
	for i := range summary.Outcomes {
		if !summary.Outcomes[i].Succeeded() {
			failed = &summary.Outcomes[i]
		}
	}
	require.NotNil(t, failed)
	assert.True(t, errors.Is(failed.Err, runner.ErrSolverFailed))
	assert.Equal(t, "Configuration2", failed.Leaf.Configuration)
}

func TestExecuteAppliesOverrideTiers(t *testing.T) {
	p := setupPipeline(t, "cp Config.cfg config_used.cfg; printf 'h\\n' > history.csv")
	require.NoError(t, p.FS.WriteFile("ValidationCases/Basic/2DML/overrides.yaml",
		[]byte("options:\n  MACH_NUMBER: \"0.5\"\n"), 0o644))
	p.Defaults = cfgpatch.Overrides{{Key: "MACH_NUMBER", Value: "0.3"}}
	p.Custom = cfgpatch.Overrides{{Key: "SOLVER", Value: "NAVIER_STOKES"}}

	summary, err := p.Execute(context.Background(), fullSelector())
	require.NoError(t, err)
	require.Equal(t, 4, summary.Succeeded())

	// The per-leaf Config.cfg is cleaned up, but the solver copied what it
	// was given: case tier beat defaults, custom tier won its key.
	data, err := p.FS.ReadFile("ValidationCases/Basic/2DML/SA/Configuration1/config_used.cfg")
	require.NoError(t, err)
	assert.Contains(t, string(data), "MACH_NUMBER= 0.5")
	assert.Contains(t, string(data), "SOLVER= NAVIER_STOKES")
	assert.Contains(t, string(data), "% base template")
}

func TestExecuteCleansWorkspace(t *testing.T) {
	p := setupPipeline(t, "printf 'h\\n' > history.csv")

	_, err := p.Execute(context.Background(), fullSelector())
	require.NoError(t, err)

	for _, dir := range []string{
		"ValidationCases/Basic/2DML/SA/Configuration1",
		"ValidationCases/Basic/2DML/SST/Configuration2",
	} {
		for _, name := range []string{"history.csv", "Config.cfg"} {
			exists, err := p.FS.Exists(dir + "/" + name)
			require.NoError(t, err)
			assert.False(t, exists, dir+"/"+name)
		}
	}

	// The case template is an input and survives.
	exists, err := p.FS.Exists("ValidationCases/Basic/2DML/Config.cfg")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestExecuteCleansWorkspaceAfterFailure(t *testing.T) {
	p := setupPipeline(t, "printf 'partial\\n' > history.csv; exit 1")

	summary, err := p.Execute(context.Background(), fullSelector())
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Failed())

	exists, err := p.FS.Exists("ValidationCases/Basic/2DML/SA/Configuration1/history.csv")
	require.NoError(t, err)
	assert.False(t, exists, "partial outputs must be cleaned after failure")
}

func TestExecuteEmptySelection(t *testing.T) {
	p := setupPipeline(t, "true")

	// No category matches the concrete name under the wildcard sweep.
	summary, err := p.Execute(context.Background(), catalog.Selector{
		Category:        catalog.All,
		Case:            "NoSuchCase",
		TurbulenceModel: catalog.All,
		Configuration:   catalog.All,
	})
	require.NoError(t, err)
	assert.Empty(t, summary.Outcomes)
	assert.Nil(t, summary.Publish)
}

func TestExecuteNotFoundSelector(t *testing.T) {
	p := setupPipeline(t, "true")

	_, err := p.Execute(context.Background(), catalog.Selector{
		Category:        "Basic",
		Case:            "Missing",
		TurbulenceModel: "SA",
		Configuration:   "Configuration1",
	})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestExecuteMissingCaseTemplate(t *testing.T) {
	p := setupPipeline(t, "printf 'h\\n' > history.csv")
	require.NoError(t, p.FS.Remove("ValidationCases/Basic/2DML/Config.cfg"))

	summary, err := p.Execute(context.Background(), fullSelector())
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Failed(), "all leaves of the case fail without a template")
	assert.Equal(t, publish.OutcomeNoOp, summary.Publish.Outcome)
}
