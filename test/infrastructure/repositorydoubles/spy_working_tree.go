//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
	"github.com/rios0rios0/gemupdate/internal/domain/repositories"
)

// SpyWorkingTree implements repositories.WorkingTree in memory. It tracks
// the checked-out branch and records every call as a short string in
// Calls, e.g. "checkout -b update_foo" or "merge main".
type SpyWorkingTree struct {
	Root          string
	Branch        string
	Default       string
	Remote        string
	Branches      map[string]bool
	Calls         []string
	Commits       []string
	DiffOutput    string
	DiffErr       error
	CheckoutErr   error
	CheckoutErrs  map[string]error // per target branch, wins over CheckoutErr
	MergeErr      error
	CommitErr     error
	PushErr       error
	PullErr       error
	DiscardErr    error
	CheckoutPaths []string
}

// NewSpyWorkingTree returns a tree on branch "main" with no other branches.
func NewSpyWorkingTree(root string) *SpyWorkingTree {
	return &SpyWorkingTree{
		Root:     root,
		Branch:   "main",
		Default:  "main",
		Remote:   "git@github.com:acme/shop.git",
		Branches: map[string]bool{"main": true},
	}
}

var _ repositories.WorkingTree = (*SpyWorkingTree)(nil)

func (t *SpyWorkingTree) Dir() string { return t.Root }

func (t *SpyWorkingTree) CurrentBranch(_ context.Context) (string, error) {
	return t.Branch, nil
}

func (t *SpyWorkingTree) DefaultBranch(_ context.Context) (string, error) {
	return t.Default, nil
}

func (t *SpyWorkingTree) RemoteURL(_ context.Context) (string, error) {
	return t.Remote, nil
}

func (t *SpyWorkingTree) BranchExists(_ context.Context, name string) (bool, error) {
	return t.Branches[name], nil
}

func (t *SpyWorkingTree) Checkout(_ context.Context, name string, create bool) error {
	if create {
		t.Calls = append(t.Calls, "checkout -b "+name)
	} else {
		t.Calls = append(t.Calls, "checkout "+name)
	}
	if err, ok := t.CheckoutErrs[name]; ok {
		return err
	}
	if t.CheckoutErr != nil {
		return t.CheckoutErr
	}
	if !create && !t.Branches[name] {
		return &entities.CommandFailure{Command: "git checkout " + name, ExitCode: 1}
	}
	t.Branches[name] = true
	t.Branch = name
	return nil
}

func (t *SpyWorkingTree) Pull(_ context.Context) error {
	t.Calls = append(t.Calls, "pull")
	return t.PullErr
}

func (t *SpyWorkingTree) MergeFrom(_ context.Context, branch string) error {
	t.Calls = append(t.Calls, "merge "+branch)
	return t.MergeErr
}

func (t *SpyWorkingTree) AbortMerge(_ context.Context) error {
	t.Calls = append(t.Calls, "merge --abort")
	return nil
}

func (t *SpyWorkingTree) Discard(_ context.Context) error {
	t.Calls = append(t.Calls, "discard")
	return t.DiscardErr
}

func (t *SpyWorkingTree) Commit(_ context.Context, message string) error {
	t.Calls = append(t.Calls, "commit "+message)
	if t.CommitErr != nil {
		return t.CommitErr
	}
	t.Commits = append(t.Commits, message)
	return nil
}

func (t *SpyWorkingTree) Push(_ context.Context) error {
	t.Calls = append(t.Calls, "push "+t.Branch)
	return t.PushErr
}

func (t *SpyWorkingTree) CheckoutPath(_ context.Context, branch, path string) error {
	t.Calls = append(t.Calls, fmt.Sprintf("checkout %s -- %s", branch, path))
	t.CheckoutPaths = append(t.CheckoutPaths, path)
	return nil
}

func (t *SpyWorkingTree) Diff(_ context.Context, from, to, path string) (string, error) {
	t.Calls = append(t.Calls, fmt.Sprintf("diff %s..%s -- %s", from, to, path))
	return t.DiffOutput, t.DiffErr
}

// SpyVersionControlRepository implements repositories.VersionControlRepository,
// handing out one SpyWorkingTree per directory.
type SpyVersionControlRepository struct {
	Trees        map[string]*SpyWorkingTree
	EnsureErrs   map[string]error // per repository name
	ConfigureErr error
	OpenErr      error

	Identity        repositories.GitIdentity
	ConfiguredFor   string
	ConfiguredToken string
	CleanedUp       bool
	EnsuredDirs     []string
}

// NewSpyVersionControlRepository creates an empty spy.
func NewSpyVersionControlRepository() *SpyVersionControlRepository {
	return &SpyVersionControlRepository{
		Trees:      make(map[string]*SpyWorkingTree),
		EnsureErrs: make(map[string]error),
	}
}

var _ repositories.VersionControlRepository = (*SpyVersionControlRepository)(nil)

func (s *SpyVersionControlRepository) Configure(
	_ context.Context, identity repositories.GitIdentity, providerType, token string,
) (func(), error) {
	if s.ConfigureErr != nil {
		return nil, s.ConfigureErr
	}
	s.Identity = identity
	s.ConfiguredFor = providerType
	s.ConfiguredToken = token
	return func() { s.CleanedUp = true }, nil
}

func (s *SpyVersionControlRepository) EnsureReady(
	_ context.Context, repo entities.Repository, dir string,
) (repositories.WorkingTree, error) {
	s.EnsuredDirs = append(s.EnsuredDirs, dir)
	if err, ok := s.EnsureErrs[repo.Name]; ok {
		return nil, err
	}
	return s.tree(dir), nil
}

func (s *SpyVersionControlRepository) Open(_ context.Context, dir string) (repositories.WorkingTree, error) {
	if s.OpenErr != nil {
		return nil, s.OpenErr
	}
	return s.tree(dir), nil
}

func (s *SpyVersionControlRepository) tree(dir string) *SpyWorkingTree {
	if tree, ok := s.Trees[dir]; ok {
		return tree
	}
	tree := NewSpyWorkingTree(dir)
	s.Trees[dir] = tree
	return tree
}

// SpyProcessRunner implements repositories.ProcessRunner, answering every
// command with the same result.
type SpyProcessRunner struct {
	Result   repositories.ProcessResult
	Err      error
	Commands []string
	Modes    []repositories.RunMode
	Env      map[string]string
}

var _ repositories.ProcessRunner = (*SpyProcessRunner)(nil)

func (s *SpyProcessRunner) Run(
	_ context.Context, _ string, mode repositories.RunMode, name string, args ...string,
) (repositories.ProcessResult, error) {
	command := name
	for _, arg := range args {
		command += " " + arg
	}
	s.Commands = append(s.Commands, command)
	s.Modes = append(s.Modes, mode)
	return s.Result, s.Err
}

func (s *SpyProcessRunner) Setenv(key, value string) {
	if s.Env == nil {
		s.Env = make(map[string]string)
	}
	if value == "" {
		delete(s.Env, key)
		return
	}
	s.Env[key] = value
}
