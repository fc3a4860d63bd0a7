package gitstore

import (
	"context"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// CurrentBranch returns the name of the currently checked out branch.
// It returns an error if HEAD is detached.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", WrapError(err, "failed to get HEAD reference")
	}
	if !head.Name().IsBranch() {
		return "", WrapError(ErrResolveFailed, "HEAD is detached")
	}
	return head.Name().Short(), nil
}

// EnsureBranch positions the worktree on the named branch. When the remote
// already has the branch, the local branch is reset to the fetched remote
// tip regardless of local state: a reused checkout must never publish on a
// stale base. Without a remote branch, an existing local branch is kept
// and a missing one is created from the current HEAD. The checkout is
// forced so the worktree always reflects the chosen tip.
func (r *Repo) EnsureBranch(ctx context.Context, name string) error {
	if name == "" {
		return WrapError(ErrInvalidRef, "branch name cannot be empty")
	}

	branchRefName := plumbing.NewBranchReferenceName(name)
	remoteRefName := plumbing.NewRemoteReferenceName(DefaultRemoteName, name)

	if remoteRef, err := r.repo.Reference(remoteRefName, true); err == nil {
		newRef := plumbing.NewHashReference(branchRefName, remoteRef.Hash())
		if err := r.repo.Storer.SetReference(newRef); err != nil {
			return WrapError(err, "failed to reset branch to remote tip")
		}
	} else if _, err := r.repo.Reference(branchRefName, true); err != nil {
		head, err := r.repo.Head()
		if err != nil {
			return WrapError(err, "failed to get HEAD reference")
		}
		newRef := plumbing.NewHashReference(branchRefName, head.Hash())
		if err := r.repo.Storer.SetReference(newRef); err != nil {
			return WrapError(err, "failed to create branch reference")
		}
	}

	err := r.worktree.Checkout(&git.CheckoutOptions{Branch: branchRefName, Force: true})
	if err != nil {
		return WrapErrorf(err, "failed to checkout branch %q", name)
	}
	return nil
}
