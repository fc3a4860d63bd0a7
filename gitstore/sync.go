package gitstore

import (
	"context"
	"errors"

	"github.com/go-git/go-git/v5"
)

// Fetch fetches changes from the named remote. Returns ErrAlreadyUpToDate
// when there is nothing to fetch.
func (r *Repo) Fetch(ctx context.Context, remote string, prune bool) error {
	if remote == "" {
		remote = DefaultRemoteName
	}

	fetchOpts := &git.FetchOptions{RemoteName: remote, Prune: prune}
	authMethod, err := r.authFor(remote)
	if err != nil {
		return err
	}
	fetchOpts.Auth = authMethod

	err = r.repo.FetchContext(ctx, fetchOpts)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		return ErrAlreadyUpToDate
	case errors.Is(err, git.ErrRemoteNotFound):
		return WrapError(ErrResolveFailed, "remote not found")
	default:
		return WrapError(err, "failed to fetch from remote")
	}
}

// Push pushes the current branch to the named remote. With force set the
// push overwrites the remote branch; without it a diverged remote yields
// ErrNotFastForward. Returns ErrAlreadyUpToDate when there is nothing to
// push.
func (r *Repo) Push(ctx context.Context, remote string, force bool) error {
	if remote == "" {
		remote = DefaultRemoteName
	}

	pushOpts := &git.PushOptions{RemoteName: remote, Force: force}
	authMethod, err := r.authFor(remote)
	if err != nil {
		return err
	}
	pushOpts.Auth = authMethod

	err = r.repo.PushContext(ctx, pushOpts)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		return ErrAlreadyUpToDate
	case errors.Is(err, git.ErrRemoteNotFound):
		return WrapError(ErrResolveFailed, "remote not found")
	case errors.Is(err, git.ErrNonFastForwardUpdate):
		return ErrNotFastForward
	default:
		return WrapError(err, "failed to push to remote")
	}
}
