// Package cleanup restores leaf workspaces to their pristine input-only
// state after a batch, deleting the transient files a solver run generates
// while leaving every pre-existing input untouched. Cleanup is best-effort:
// it runs after success and failure alike, and its own failures are logged
// and suppressed, never escalated into the batch outcome.
package cleanup

import (
	"context"
	"log/slog"
	"path"
	"strings"

	slogctx "github.com/veqryn/slog-context"

	"github.com/HarshM0210/Config-Workflow/artifact"
	"github.com/HarshM0210/Config-Workflow/catalog"
	"github.com/HarshM0210/Config-Workflow/fs"
)

// Cleaner removes generated artifacts from leaf workspaces.
type Cleaner struct {
	FS *fs.FS
}

// Run cleans every Configuration-prefixed directory that is a sibling of a
// resolved leaf, covering leaves that ran and leaves that failed half-way.
// It never returns an error.
func (c *Cleaner) Run(ctx context.Context, leaves []catalog.LeafJob) {
	log := slogctx.FromCtx(ctx)

	for _, dir := range configurationDirs(c.FS, leaves) {
		set, err := artifact.Collect(c.FS, dir)
		if err != nil {
			log.Warn("cleanup: skipping unreadable directory",
				slog.String("dir", dir), slog.String("error", err.Error()))
			continue
		}
		if len(set.Files) == 0 && !set.HasPlots {
			continue
		}
		if err := set.Remove(c.FS); err != nil {
			log.Warn("cleanup: failed to remove generated files",
				slog.String("dir", dir), slog.String("error", err.Error()))
			continue
		}
		log.Debug("cleanup: removed generated files",
			slog.String("dir", dir), slog.Int("files", len(set.Files)))
	}
}

// configurationDirs lists the distinct Configuration*-named directories
// under the parents of the given leaves, in first-seen order.
func configurationDirs(fsys *fs.FS, leaves []catalog.LeafJob) []string {
	var dirs []string
	seenParent := map[string]bool{}
	for _, leaf := range leaves {
		parent := path.Dir(leaf.MainPath)
		if seenParent[parent] {
			continue
		}
		seenParent[parent] = true

		entries, err := fsys.ReadDir(parent)
		if err != nil {
			// The leaf's own directory may still be cleanable even when
			// the parent listing fails.
			dirs = append(dirs, leaf.MainPath)
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() && strings.HasPrefix(strings.ToLower(entry.Name()), "configuration") {
				dirs = append(dirs, path.Join(parent, entry.Name()))
			}
		}
	}
	return dirs
}
