package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/gemupdate/internal/domain/repositories"
)

//nolint:gochecknoglobals // conventional fallbacks when origin/HEAD is unknown
var fallbackDefaultBranches = []string{"main", "master"}

// WorkingTree reads refs through go-git and runs every mutating operation
// through the git binary, so both views always agree on the files on disk.
type WorkingTree struct {
	dir    string
	repo   *gogit.Repository
	runner repositories.ProcessRunner
}

func newWorkingTree(dir string, repo *gogit.Repository, runner repositories.ProcessRunner) *WorkingTree {
	return &WorkingTree{dir: dir, repo: repo, runner: runner}
}

var _ repositories.WorkingTree = (*WorkingTree)(nil)

func (t *WorkingTree) Dir() string { return t.dir }

func (t *WorkingTree) CurrentBranch(_ context.Context) (string, error) {
	head, err := t.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is detached at %s", head.Hash())
	}
	return head.Name().Short(), nil
}

// DefaultBranch follows refs/remotes/origin/HEAD. When the clone did not
// record it, origin is asked once with "git remote set-head --auto".
func (t *WorkingTree) DefaultBranch(ctx context.Context) (string, error) {
	if branch, ok := t.remoteHead(); ok {
		return branch, nil
	}

	if _, err := t.git(ctx, repositories.AllowFailure, "remote", "set-head", remoteName, "--auto"); err != nil {
		return "", err
	}
	if branch, ok := t.remoteHead(); ok {
		return branch, nil
	}

	for _, candidate := range fallbackDefaultBranches {
		if exists, _ := t.BranchExists(ctx, candidate); exists {
			logger.Warnf("origin/HEAD is unknown in %s, assuming %q", t.dir, candidate)
			return candidate, nil
		}
	}
	return "", fmt.Errorf("cannot determine the default branch of %s", t.dir)
}

func (t *WorkingTree) remoteHead() (string, bool) {
	ref, err := t.repo.Reference(plumbing.NewRemoteHEADReferenceName(remoteName), false)
	if err != nil || ref.Type() != plumbing.SymbolicReference {
		return "", false
	}
	return strings.TrimPrefix(ref.Target().Short(), remoteName+"/"), true
}

func (t *WorkingTree) RemoteURL(_ context.Context) (string, error) {
	remote, err := t.repo.Remote(remoteName)
	if err != nil {
		return "", fmt.Errorf("failed to read remote %q: %w", remoteName, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %q has no URL", remoteName)
	}
	return urls[0], nil
}

func (t *WorkingTree) BranchExists(_ context.Context, name string) (bool, error) {
	for _, ref := range []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(name),
		plumbing.NewRemoteReferenceName(remoteName, name),
	} {
		_, err := t.repo.Reference(ref, false)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, plumbing.ErrReferenceNotFound) {
			return false, fmt.Errorf("failed to look up %s: %w", ref, err)
		}
	}
	return false, nil
}

// Checkout switches to name. A branch that only exists on origin is
// checked out as a new tracking branch by git itself.
func (t *WorkingTree) Checkout(ctx context.Context, name string, create bool) error {
	args := []string{"checkout", name}
	if create {
		args = []string{"checkout", "-b", name}
	}
	_, err := t.git(ctx, repositories.MustSucceed, args...)
	return err
}

func (t *WorkingTree) Pull(ctx context.Context) error {
	_, err := t.git(ctx, repositories.MustSucceed, "pull", "--ff-only")
	return err
}

func (t *WorkingTree) MergeFrom(ctx context.Context, branch string) error {
	_, err := t.git(ctx, repositories.MustSucceed, "merge", "--no-edit", branch)
	return err
}

func (t *WorkingTree) AbortMerge(ctx context.Context) error {
	if !t.mergeInProgress(ctx) {
		return nil
	}
	_, err := t.git(ctx, repositories.MustSucceed, "merge", "--abort")
	return err
}

// Discard resets tracked files to HEAD and removes untracked ones.
func (t *WorkingTree) Discard(ctx context.Context) error {
	if _, err := t.git(ctx, repositories.MustSucceed, "reset", "--hard"); err != nil {
		return err
	}
	_, err := t.git(ctx, repositories.MustSucceed, "clean", "-fd")
	return err
}

// Commit stages everything and commits. A clean tree outside of a merge
// is reported at info level and is not an error.
func (t *WorkingTree) Commit(ctx context.Context, message string) error {
	if _, err := t.git(ctx, repositories.MustSucceed, "add", "-A"); err != nil {
		return err
	}

	status, err := t.git(ctx, repositories.MustSucceed, "status", "--porcelain")
	if err != nil {
		return err
	}
	if strings.TrimSpace(status.Output) == "" && !t.mergeInProgress(ctx) {
		logger.Infof("Nothing to commit for %q", message)
		return nil
	}

	_, err = t.git(ctx, repositories.MustSucceed, "commit", "--no-verify", "-m", message)
	return err
}

func (t *WorkingTree) Push(ctx context.Context) error {
	branch, err := t.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	_, err = t.git(ctx, repositories.MustSucceed, "push", remoteName, branch+":"+branch)
	return err
}

func (t *WorkingTree) CheckoutPath(ctx context.Context, branch, path string) error {
	_, err := t.git(ctx, repositories.MustSucceed, "checkout", branch, "--", path)
	return err
}

func (t *WorkingTree) Diff(ctx context.Context, from, to, path string) (string, error) {
	result, err := t.git(ctx, repositories.MustSucceed, "diff", from+".."+to, "--", path)
	if err != nil {
		return "", err
	}
	return result.Output, nil
}

func (t *WorkingTree) mergeInProgress(ctx context.Context) bool {
	result, err := t.git(ctx, repositories.AllowFailure, "rev-parse", "-q", "--verify", "MERGE_HEAD")
	return err == nil && result.Success
}

func (t *WorkingTree) git(
	ctx context.Context,
	mode repositories.RunMode,
	args ...string,
) (repositories.ProcessResult, error) {
	return t.runner.Run(ctx, t.dir, mode, "git", args...)
}
