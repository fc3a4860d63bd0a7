package gitstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HarshM0210/Config-Workflow/fs"
)

type testRepo struct {
	repo *Repo
	fs   *fs.FS
	ctx  context.Context
}

func setupTestRepo(t *testing.T) *testRepo {
	t.Helper()

	ctx := context.Background()
	memFS := fs.NewInMemoryFS()

	repo, err := Init(ctx, &Options{FS: memFS})
	require.NoError(t, err, "failed to initialize test repository")
	require.NotNil(t, repo)

	return &testRepo{repo: repo, fs: memFS, ctx: ctx}
}

func testSignature() Signature {
	return Signature{
		Name:  "Test Author",
		Email: "test@example.com",
		When:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func (tr *testRepo) commitFile(t *testing.T, path, content, msg string) string {
	t.Helper()

	require.NoError(t, tr.fs.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, tr.repo.Add(tr.ctx, path))

	hash, err := tr.repo.Commit(tr.ctx, msg, testSignature(), false)
	require.NoError(t, err)
	return hash
}

func TestInitValidation(t *testing.T) {
	_, err := Init(context.Background(), &Options{})
	assert.Error(t, err, "Init without FS must fail")
}

func TestAddAndCommit(t *testing.T) {
	tr := setupTestRepo(t)

	hash := tr.commitFile(t, "results/run.csv", "1,2,3", "publish results")
	assert.NotEmpty(t, hash)

	staged, err := tr.repo.HasStagedChanges(tr.ctx)
	require.NoError(t, err)
	assert.False(t, staged, "nothing should remain staged after commit")
}

func TestCommitEmptyIsRejected(t *testing.T) {
	tr := setupTestRepo(t)
	tr.commitFile(t, "a.txt", "x", "initial")

	_, err := tr.repo.Commit(tr.ctx, "nothing to do", testSignature(), false)
	assert.True(t, errors.Is(err, ErrEmptyCommit))
}

func TestCommitRequiresSignature(t *testing.T) {
	tr := setupTestRepo(t)

	_, err := tr.repo.Commit(tr.ctx, "msg", Signature{}, true)
	assert.Error(t, err)
}

func TestAddGlobPattern(t *testing.T) {
	tr := setupTestRepo(t)
	require.NoError(t, tr.fs.WriteFile("out/a.csv", []byte("a"), 0o644))
	require.NoError(t, tr.fs.WriteFile("out/b.csv", []byte("b"), 0o644))
	require.NoError(t, tr.fs.WriteFile("out/keep.md", []byte("k"), 0o644))

	require.NoError(t, tr.repo.Add(tr.ctx, "out/*.csv"))

	staged, err := tr.repo.HasStagedChanges(tr.ctx)
	require.NoError(t, err)
	assert.True(t, staged)
}

func TestAddAllStagesDeletions(t *testing.T) {
	tr := setupTestRepo(t)
	tr.commitFile(t, "old.dat", "stale", "initial")

	require.NoError(t, tr.fs.Remove("old.dat"))
	require.NoError(t, tr.repo.AddAll(tr.ctx))

	staged, err := tr.repo.HasStagedChanges(tr.ctx)
	require.NoError(t, err)
	assert.True(t, staged, "deletion should be staged")
}

func TestEnsureBranchCreatesAndChecksOut(t *testing.T) {
	tr := setupTestRepo(t)
	tr.commitFile(t, "seed.txt", "s", "initial")

	require.NoError(t, tr.repo.EnsureBranch(tr.ctx, "results/2DML-harsh"))

	branch, err := tr.repo.CurrentBranch(tr.ctx)
	require.NoError(t, err)
	assert.Equal(t, "results/2DML-harsh", branch)

	// Idempotent: ensuring an existing branch keeps it checked out.
	require.NoError(t, tr.repo.EnsureBranch(tr.ctx, "results/2DML-harsh"))
	branch, err = tr.repo.CurrentBranch(tr.ctx)
	require.NoError(t, err)
	assert.Equal(t, "results/2DML-harsh", branch)
}

func TestEnsureBranchResetsToRemoteTip(t *testing.T) {
	tr := setupTestRepo(t)
	stale := tr.commitFile(t, "seed.txt", "old", "initial")

	branch := "results/2DML-harsh"
	require.NoError(t, tr.repo.EnsureBranch(tr.ctx, branch))
	newer := tr.commitFile(t, "seed.txt", "new", "newer results")

	branchRef := plumbing.NewBranchReferenceName(branch)

	// Rewind the local branch to the stale tip and mark the newer commit
	// as the fetched remote state.
	require.NoError(t, tr.repo.repo.Storer.SetReference(
		plumbing.NewHashReference(branchRef, plumbing.NewHash(stale))))
	require.NoError(t, tr.repo.worktree.Checkout(&git.CheckoutOptions{Branch: branchRef, Force: true}))
	require.NoError(t, tr.repo.repo.Storer.SetReference(
		plumbing.NewHashReference(plumbing.NewRemoteReferenceName(DefaultRemoteName, branch), plumbing.NewHash(newer))))

	require.NoError(t, tr.repo.EnsureBranch(tr.ctx, branch))

	head, err := tr.repo.repo.Head()
	require.NoError(t, err)
	assert.Equal(t, newer, head.Hash().String(), "branch must sit on the fetched remote tip, not the stale local tip")

	data, err := tr.fs.ReadFile("seed.txt")
	require.NoError(t, err)
	assert.Equal(t, "new", string(data), "worktree must be refreshed to the remote tip")
}

func TestEnsureRemote(t *testing.T) {
	tr := setupTestRepo(t)

	require.NoError(t, tr.repo.EnsureRemote("", "https://example.com/results.git"))

	remote, err := tr.repo.repo.Remote(DefaultRemoteName)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/results.git"}, remote.Config().URLs)

	// Idempotent: an existing remote is left untouched.
	require.NoError(t, tr.repo.EnsureRemote("", "https://example.com/other.git"))
	remote, err = tr.repo.repo.Remote(DefaultRemoteName)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/results.git"}, remote.Config().URLs)
}

func TestEnsureBranchEmptyName(t *testing.T) {
	tr := setupTestRepo(t)
	assert.Error(t, tr.repo.EnsureBranch(tr.ctx, ""))
}

func TestPushWithoutRemote(t *testing.T) {
	tr := setupTestRepo(t)
	tr.commitFile(t, "seed.txt", "s", "initial")

	err := tr.repo.Push(tr.ctx, "", true)
	assert.Error(t, err)
}
