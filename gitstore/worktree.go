package gitstore

import (
	"context"
	"errors"
	"strings"

	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Add stages the given worktree paths for the next commit. Glob patterns
// are expanded against the worktree; paths that do not exist are silently
// ignored, matching git add behavior.
func (r *Repo) Add(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}

	workdirFS, err := r.options.FS.Raw().Chroot(r.options.Workdir)
	if err != nil {
		return WrapErrorf(err, "failed to chroot to workdir %q", r.options.Workdir)
	}

	var pathsToAdd []string
	for _, path := range paths {
		if path == "" {
			continue
		}
		if strings.ContainsAny(path, "*?[") {
			matches, globErr := util.Glob(workdirFS, path)
			if globErr != nil {
				return WrapErrorf(globErr, "invalid glob pattern %q", path)
			}
			pathsToAdd = append(pathsToAdd, matches...)
			continue
		}
		pathsToAdd = append(pathsToAdd, path)
	}

	for _, path := range pathsToAdd {
		if err := r.worktree.AddWithOptions(&git.AddOptions{Path: path, SkipStatus: false}); err != nil {
			return WrapErrorf(err, "failed to add path %q", path)
		}
	}
	return nil
}

// AddAll stages every change in the worktree, including deletions.
func (r *Repo) AddAll(ctx context.Context) error {
	if err := r.worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return WrapError(err, "failed to add all changes")
	}
	return nil
}

// HasStagedChanges reports whether anything is staged for commit.
func (r *Repo) HasStagedChanges(ctx context.Context) (bool, error) {
	status, err := r.worktree.Status()
	if err != nil {
		return false, WrapError(err, "failed to get worktree status")
	}
	for _, fileStatus := range status {
		if fileStatus.Staging != git.Untracked && fileStatus.Staging != git.Unmodified {
			return true, nil
		}
	}
	return false, nil
}

// Commit creates a commit from the staged changes. Without staged changes
// it returns ErrEmptyCommit unless allowEmpty is set.
func (r *Repo) Commit(ctx context.Context, msg string, who Signature, allowEmpty bool) (string, error) {
	if msg == "" {
		return "", WrapError(ErrInvalidRef, "commit message cannot be empty")
	}
	if who.Name == "" || who.Email == "" {
		return "", WrapError(ErrInvalidRef, "committer name and email are required")
	}

	staged, err := r.HasStagedChanges(ctx)
	if err != nil {
		return "", err
	}
	if !staged && !allowEmpty {
		return "", ErrEmptyCommit
	}

	sig := &object.Signature{Name: who.Name, Email: who.Email, When: who.When}
	hash, err := r.worktree.Commit(msg, &git.CommitOptions{
		Author:            sig,
		Committer:         sig,
		AllowEmptyCommits: allowEmpty,
	})
	if err != nil {
		if errors.Is(err, git.ErrEmptyCommit) {
			return "", ErrEmptyCommit
		}
		return "", WrapError(err, "failed to create commit")
	}
	return hash.String(), nil
}
