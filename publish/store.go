package publish

import (
	"context"
	"errors"
	"fmt"

	"github.com/HarshM0210/Config-Workflow/fs"
	"github.com/HarshM0210/Config-Workflow/gitstore"
)

// Store is an open checkout of the results repository, positioned on the
// publishing branch.
type Store struct {
	Repo *gitstore.Repo
	FS   *fs.FS
}

// StoreConfig locates the results repository. Exactly one of RemoteURL and
// LocalPath must be set: a remote store is cloned into ScratchDir, a local
// store is opened in place.
type StoreConfig struct {
	RemoteURL  string
	LocalPath  string
	ScratchDir string

	// Branch is the publishing branch, created from the remote branch or
	// the default HEAD when absent.
	Branch string

	// Auth resolves credentials for clone/fetch/push. Optional.
	Auth gitstore.AuthProvider
}

// OpenStore prepares the results store for publishing: clone or open,
// fetch when a remote is configured, and check out the publishing branch.
// The store's branch is exclusively owned by the batch for the duration of
// the publish; concurrent batches against one branch are not supported.
func OpenStore(ctx context.Context, cfg StoreConfig) (*Store, error) {
	var (
		repo  *gitstore.Repo
		fsys  *fs.FS
		err   error
		local = cfg.LocalPath != ""
	)

	switch {
	case local && cfg.RemoteURL != "":
		return nil, fmt.Errorf("results store: remote URL and local path are mutually exclusive")
	case local:
		fsys = fs.NewOSFS(cfg.LocalPath)
		repo, err = gitstore.Open(ctx, &gitstore.Options{FS: fsys, Auth: cfg.Auth})
	case cfg.RemoteURL != "":
		if cfg.ScratchDir == "" {
			return nil, fmt.Errorf("results store: scratch directory is required for remote stores")
		}
		fsys = fs.NewOSFS(cfg.ScratchDir)
		repo, err = openOrClone(ctx, cfg, fsys)
	default:
		return nil, fmt.Errorf("results store: remote URL or local path is required")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPublishConflict, err)
	}

	if cfg.Branch != "" {
		if err := repo.EnsureBranch(ctx, cfg.Branch); err != nil {
			return nil, fmt.Errorf("%w: branch %q: %v", ErrPublishConflict, cfg.Branch, err)
		}
	}

	return &Store{Repo: repo, FS: fsys}, nil
}

// openOrClone reuses an existing scratch clone when one is present,
// refreshing it from the remote, and clones from scratch otherwise.
func openOrClone(ctx context.Context, cfg StoreConfig, fsys *fs.FS) (*gitstore.Repo, error) {
	opts := &gitstore.Options{FS: fsys, Auth: cfg.Auth}

	if ok, _ := fsys.Exists(".git"); ok {
		repo, err := gitstore.Open(ctx, opts)
		if err != nil {
			return nil, err
		}
		// A reused scratch checkout may predate its remote configuration.
		if err := repo.EnsureRemote("", cfg.RemoteURL); err != nil {
			return nil, err
		}
		if err := repo.Fetch(ctx, "", true); err != nil && !errors.Is(err, gitstore.ErrAlreadyUpToDate) {
			return nil, err
		}
		return repo, nil
	}

	return gitstore.Clone(ctx, cfg.RemoteURL, opts)
}
