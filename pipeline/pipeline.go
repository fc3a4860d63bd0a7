// Package pipeline drives one batch end to end: resolve the selector,
// run each leaf sequentially in resolver order, publish the collected
// artifacts as one change set, and clean the workspace unconditionally
// last. Leaf failures are isolated and aggregated; only a publisher
// failure is fatal for the batch.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"

	"github.com/google/uuid"
	slogctx "github.com/veqryn/slog-context"

	"github.com/HarshM0210/Config-Workflow/artifact"
	"github.com/HarshM0210/Config-Workflow/catalog"
	"github.com/HarshM0210/Config-Workflow/cfgpatch"
	"github.com/HarshM0210/Config-Workflow/cleanup"
	"github.com/HarshM0210/Config-Workflow/fs"
	"github.com/HarshM0210/Config-Workflow/publish"
	"github.com/HarshM0210/Config-Workflow/runner"
)

// caseOverridesName is the optional per-case override file providing the
// case-specific tier.
const caseOverridesName = "overrides.yaml"

// Pipeline wires the batch components together.
type Pipeline struct {
	FS        *fs.FS
	Tree      *catalog.Tree
	Runner    *runner.Runner
	Publisher *publish.Publisher
	Cleaner   *cleanup.Cleaner

	// Defaults is the lowest-precedence override tier.
	Defaults cfgpatch.Overrides
	// Custom is the caller-supplied highest-precedence tier.
	Custom cfgpatch.Overrides
}

// LeafOutcome records how one leaf ended.
type LeafOutcome struct {
	Leaf catalog.LeafJob
	Err  error
}

// Succeeded reports whether the leaf produced artifacts.
func (o LeafOutcome) Succeeded() bool {
	return o.Err == nil
}

// Summary aggregates a batch run.
type Summary struct {
	RunID    uuid.UUID
	Target   string
	Outcomes []LeafOutcome
	Publish  *publish.Result
}

// Succeeded counts leaves that produced artifacts.
func (s *Summary) Succeeded() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Succeeded() {
			n++
		}
	}
	return n
}

// Failed counts leaves that did not.
func (s *Summary) Failed() int {
	return len(s.Outcomes) - s.Succeeded()
}

// Execute runs one batch. The returned Summary is non-nil whenever
// resolution succeeded, including the zero-leaf and publish-failure cases;
// the error is non-nil only for resolution failures and publish failures.
func (p *Pipeline) Execute(ctx context.Context, sel catalog.Selector) (*Summary, error) {
	runID := uuid.New()
	log := slogctx.FromCtx(ctx).With(slog.String("run_id", runID.String()))
	ctx = slogctx.NewCtx(ctx, log)

	leaves, err := p.Tree.Resolve(ctx, sel)
	if err != nil {
		return nil, err
	}

	summary := &Summary{RunID: runID, Target: sel.RunTarget()}
	if len(leaves) == 0 {
		log.Info("selector matched no leaves, nothing to run")
		return summary, nil
	}
	log.Info("batch resolved", slog.Int("leaves", len(leaves)))

	// Cleanup runs unconditionally last, whatever happened upstream.
	defer p.Cleaner.Run(ctx, leaves)

	items := p.runLeaves(ctx, leaves, summary)

	p.Publisher.Message = fmt.Sprintf("Update validation results for %s (%s)", summary.Target, runID)
	result, err := p.Publisher.Publish(ctx, items)
	if err != nil {
		return summary, err
	}
	summary.Publish = result

	log.Info("batch finished",
		slog.Int("succeeded", summary.Succeeded()),
		slog.Int("failed", summary.Failed()),
		slog.String("publish", result.Outcome.String()))
	return summary, nil
}

// runLeaves executes every leaf sequentially, recording per-leaf outcomes
// and returning the publishable items. One leaf's failure never aborts its
// siblings.
func (p *Pipeline) runLeaves(ctx context.Context, leaves []catalog.LeafJob, summary *Summary) []publish.Item {
	log := slogctx.FromCtx(ctx)

	docs := map[string]*cfgpatch.Document{}
	docErrs := map[string]error{}
	var items []publish.Item

	for _, leaf := range leaves {
		doc, err := p.caseDocument(leaf, docs, docErrs)
		if err == nil {
			var set *artifact.Set
			set, err = p.Runner.Run(ctx, leaf, doc)
			if err == nil {
				items = append(items, publish.Item{Leaf: leaf, Artifacts: set})
			}
		}
		if err != nil {
			log.Error("leaf failed", slog.String("leaf", leaf.String()), slog.String("error", err.Error()))
		}
		summary.Outcomes = append(summary.Outcomes, LeafOutcome{Leaf: leaf, Err: err})
	}
	return items
}

// caseDocument returns the patched base document for the leaf's case,
// patching it once per case and sharing the result read-only across the
// case's leaves. Tier order: defaults, then the case's overrides.yaml when
// present, then the caller-supplied custom tier.
func (p *Pipeline) caseDocument(leaf catalog.LeafJob, docs map[string]*cfgpatch.Document, docErrs map[string]error) (*cfgpatch.Document, error) {
	caseDir := path.Dir(path.Dir(leaf.MainPath))
	if doc, ok := docs[caseDir]; ok {
		return doc, nil
	}
	if err, ok := docErrs[caseDir]; ok {
		return nil, err
	}

	doc, err := p.loadCaseDocument(caseDir)
	if err != nil {
		docErrs[caseDir] = err
		return nil, err
	}
	docs[caseDir] = doc
	return doc, nil
}

func (p *Pipeline) loadCaseDocument(caseDir string) (*cfgpatch.Document, error) {
	templatePath := path.Join(caseDir, artifact.ConfigFileName)
	data, err := p.FS.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("loading config template %s: %w", templatePath, err)
	}
	base := cfgpatch.Parse(data)

	caseTier, err := p.loadCaseOverrides(caseDir)
	if err != nil {
		return nil, err
	}
	return cfgpatch.Patch(base, p.Defaults, caseTier, p.Custom), nil
}

func (p *Pipeline) loadCaseOverrides(caseDir string) (cfgpatch.Overrides, error) {
	overridesPath := path.Join(caseDir, caseOverridesName)
	ok, err := p.FS.Exists(overridesPath)
	if err != nil || !ok {
		return nil, err
	}

	data, err := p.FS.ReadFile(overridesPath)
	if err != nil {
		return nil, err
	}
	tier, err := cfgpatch.ParseOverridesYAML(data)
	if err != nil {
		return nil, fmt.Errorf("case overrides %s: %w", overridesPath, err)
	}
	return tier, nil
}

// IsNotFound reports whether the error is a catalog resolution miss.
func IsNotFound(err error) bool {
	return errors.Is(err, catalog.ErrNotFound)
}
