package gitstore

import (
	"context"
	"time"

	gobilly "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/HarshM0210/Config-Workflow/fs"
)

const (
	// DefaultRemoteName is the remote used for fetch and push.
	DefaultRemoteName = "origin"

	// defaultStorerCacheSize is the LRU object cache size.
	defaultStorerCacheSize = 1000
)

// AuthProvider resolves the authentication method for a remote URL.
// A nil method means the URL needs no authentication.
type AuthProvider interface {
	Method(remoteURL string) (transport.AuthMethod, error)
}

// Options configures repository access.
type Options struct {
	// FS is the filesystem the repository lives in.
	FS *fs.FS

	// Workdir is the worktree root within FS. Defaults to ".".
	Workdir string

	// Auth resolves credentials for network operations. Optional.
	Auth AuthProvider
}

// Validate checks required fields.
func (o *Options) Validate() error {
	if o.FS == nil {
		return WrapError(ErrInvalidRef, "FS is required")
	}
	return nil
}

func (o *Options) applyDefaults() {
	if o.Workdir == "" {
		o.Workdir = "."
	}
}

// Signature identifies the author and committer of a commit.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// Repo is an open, non-bare git repository.
type Repo struct {
	repo     *git.Repository
	worktree *git.Worktree
	options  Options
}

func (o *Options) storageAndWorktree() (*filesystem.Storage, gobilly.Filesystem, error) {
	scopedFS, err := o.FS.Raw().Chroot(o.Workdir)
	if err != nil {
		return nil, nil, WrapErrorf(err, "failed to chroot to workdir %q", o.Workdir)
	}
	dotGitFS, err := scopedFS.Chroot(git.GitDirName)
	if err != nil {
		return nil, nil, WrapError(err, "failed to access .git directory")
	}
	storage := filesystem.NewStorage(dotGitFS, cache.NewObjectLRU(cache.FileSize(defaultStorerCacheSize)))
	return storage, scopedFS, nil
}

// Init creates a new non-bare repository at the workdir.
func Init(ctx context.Context, opts *Options) (*Repo, error) {
	return setup(opts, func(storage *filesystem.Storage, worktreeFS gobilly.Filesystem) (*git.Repository, error) {
		return git.Init(storage, worktreeFS)
	})
}

// Open opens an existing non-bare repository at the workdir.
func Open(ctx context.Context, opts *Options) (*Repo, error) {
	return setup(opts, func(storage *filesystem.Storage, worktreeFS gobilly.Filesystem) (*git.Repository, error) {
		return git.Open(storage, worktreeFS)
	})
}

// Clone clones remoteURL into the workdir.
func Clone(ctx context.Context, remoteURL string, opts *Options) (*Repo, error) {
	if remoteURL == "" {
		return nil, WrapError(ErrInvalidRef, "remote URL cannot be empty")
	}
	return setup(opts, func(storage *filesystem.Storage, worktreeFS gobilly.Filesystem) (*git.Repository, error) {
		cloneOpts := &git.CloneOptions{URL: remoteURL}
		if opts.Auth != nil {
			authMethod, err := opts.Auth.Method(remoteURL)
			if err != nil {
				return nil, WrapError(ErrAuthRequired, "failed to get authentication method")
			}
			cloneOpts.Auth = authMethod
		}
		return git.CloneContext(ctx, storage, worktreeFS, cloneOpts)
	})
}

func setup(opts *Options, open func(*filesystem.Storage, gobilly.Filesystem) (*git.Repository, error)) (*Repo, error) {
	if err := opts.Validate(); err != nil {
		return nil, WrapError(err, "invalid options")
	}
	opts.applyDefaults()

	storage, worktreeFS, err := opts.storageAndWorktree()
	if err != nil {
		return nil, err
	}

	repo, err := open(storage, worktreeFS)
	if err != nil {
		return nil, WrapError(err, "failed to open repository")
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, WrapError(err, "failed to get worktree")
	}

	return &Repo{repo: repo, worktree: worktree, options: *opts}, nil
}

// EnsureRemote creates the named remote pointing at url if it does not
// already exist.
func (r *Repo) EnsureRemote(name, url string) error {
	if name == "" {
		name = DefaultRemoteName
	}
	if _, err := r.repo.Remote(name); err == nil {
		return nil
	}
	_, err := r.repo.CreateRemote(&gitconfig.RemoteConfig{Name: name, URLs: []string{url}})
	if err != nil {
		return WrapErrorf(err, "failed to create remote %q", name)
	}
	return nil
}

// authFor resolves the auth method for the named remote, if a provider is
// configured.
func (r *Repo) authFor(remote string) (transport.AuthMethod, error) {
	if r.options.Auth == nil {
		return nil, nil
	}
	remoteConfig, err := r.repo.Remote(remote)
	if err != nil {
		return nil, WrapError(err, "failed to get remote configuration")
	}
	authMethod, err := r.options.Auth.Method(remoteConfig.Config().URLs[0])
	if err != nil {
		return nil, WrapError(ErrAuthRequired, "failed to get authentication method")
	}
	return authMethod, nil
}
