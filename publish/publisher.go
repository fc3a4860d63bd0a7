// Package publish merges leaf artifacts into the results store and commits
// the batch as a single unit.
//
// The merge is deliberately overwrite-or-create, never merge-by-file: each
// leaf's canonical destination subtree is deleted before its fresh artifact
// directory is copied in, so publishing the same leaf twice leaves the
// destination byte-identical. A batch whose overwrite changes nothing ends
// as a no-op outcome with no commit.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"

	slogctx "github.com/veqryn/slog-context"

	"github.com/HarshM0210/Config-Workflow/artifact"
	"github.com/HarshM0210/Config-Workflow/catalog"
	"github.com/HarshM0210/Config-Workflow/fs"
	"github.com/HarshM0210/Config-Workflow/gitstore"
)

// ErrPublishConflict is returned when the destination store rejects the
// batch (write, auth, or push failure). Partial publish must surface, so
// this error is fatal for the batch.
var ErrPublishConflict = errors.New("publish conflict")

// placeholderName marks an artifact subdirectory that mirrors the
// selection shape without solver output behind it.
const placeholderName = ".gitkeep"

// Outcome classifies a publish run.
type Outcome int

const (
	// OutcomeCommitted means a commit was created (and pushed, when a
	// remote is configured).
	OutcomeCommitted Outcome = iota
	// OutcomeNoOp means the overwrite produced an empty diff; nothing was
	// committed. A no-op is a legitimate result, not an error.
	OutcomeNoOp
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeNoOp:
		return "no-op"
	default:
		return "unknown"
	}
}

// Item pairs a leaf with its collected artifacts.
type Item struct {
	Leaf      catalog.LeafJob
	Artifacts *artifact.Set
}

// Result reports what a publish run did.
type Result struct {
	Outcome    Outcome
	CommitHash string
	Leaves     int
}

// Publisher merges artifact sets into the results store worktree and
// commits them as one change set.
type Publisher struct {
	// Workspace is the filesystem the artifacts were produced in.
	Workspace *fs.FS
	// Store is the results store checkout.
	Store *Store

	// Author signs the batch commit.
	Author gitstore.Signature
	// Message is the commit message for the batch.
	Message string
	// PushEnabled controls whether the commit is force-pushed to the
	// store's remote. Local stores run with it off.
	PushEnabled bool
}

// Publish merges every item into the store, then commits and force-pushes
// the change set as a unit. Any store-side failure maps to
// ErrPublishConflict.
func (p *Publisher) Publish(ctx context.Context, items []Item) (*Result, error) {
	log := slogctx.FromCtx(ctx)

	for _, item := range items {
		if err := p.stageLeaf(item); err != nil {
			return nil, fmt.Errorf("%w: staging %s: %v", ErrPublishConflict, item.Leaf, err)
		}
	}

	if err := p.Store.Repo.AddAll(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPublishConflict, err)
	}

	staged, err := p.Store.Repo.HasStagedChanges(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPublishConflict, err)
	}
	if !staged {
		log.Info("publish: no changes against destination, skipping commit")
		return &Result{Outcome: OutcomeNoOp, Leaves: len(items)}, nil
	}

	hash, err := p.Store.Repo.Commit(ctx, p.Message, p.Author, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPublishConflict, err)
	}
	log.Info("publish: committed batch", slog.String("commit", hash), slog.Int("leaves", len(items)))

	if p.PushEnabled {
		if err := p.Store.Repo.Push(ctx, "", true); err != nil && !errors.Is(err, gitstore.ErrAlreadyUpToDate) {
			return nil, fmt.Errorf("%w: push: %v", ErrPublishConflict, err)
		}
		log.Info("publish: pushed batch")
	}

	return &Result{Outcome: OutcomeCommitted, CommitHash: hash, Leaves: len(items)}, nil
}

// stageLeaf overwrites the leaf's canonical destination subtree with its
// fresh artifacts. The subtree is removed first so stale files from an
// earlier run can never survive alongside new ones.
func (p *Publisher) stageLeaf(item Item) error {
	dest := item.Leaf.DestSubpath()

	if err := p.Store.FS.RemoveAll(dest); err != nil {
		return err
	}
	if err := p.Store.FS.MkdirAll(dest, 0o755); err != nil {
		return err
	}

	for _, name := range item.Artifacts.Files {
		src := path.Join(item.Artifacts.Dir, name)
		if err := fs.CopyFileBetween(p.Workspace, src, p.Store.FS, path.Join(dest, name)); err != nil {
			return err
		}
	}

	plotsDest := path.Join(dest, artifact.PlotsDir)
	if item.Artifacts.HasPlots {
		return fs.CopyTree(p.Workspace, path.Join(item.Artifacts.Dir, artifact.PlotsDir), p.Store.FS, plotsDest)
	}
	// Keep the destination shape mirroring the selection even when the
	// solver produced no plots.
	return p.Store.FS.WriteFile(path.Join(plotsDest, placeholderName), nil, 0o644)
}
