package commands

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
	"github.com/rios0rios0/gemupdate/internal/domain/repositories"
)

// WorkflowContext is the state of one dependency update attempt. Only one
// is active per working tree at a time.
type WorkflowContext struct {
	Repository     entities.Repository
	Project        string // subproject path relative to the tree root, "" for the root
	Candidate      entities.UpgradeCandidate
	BranchName     string
	OriginalBranch string
	Tree           repositories.WorkingTree
	Provider       repositories.ProviderRepository
}

func newWorkflowContext(target UpdateTarget, candidate entities.UpgradeCandidate) *WorkflowContext {
	return &WorkflowContext{
		Repository: target.Repository,
		Project:    target.Project,
		Candidate:  candidate,
		BranchName: candidate.BranchName(),
		Tree:       target.Tree,
		Provider:   target.Provider,
	}
}

// ProjectDir is the absolute directory the dependency manager runs in.
func (c *WorkflowContext) ProjectDir() string {
	return filepath.Join(c.Tree.Dir(), filepath.FromSlash(c.Project))
}

// TreePath turns a project relative file into a path relative to the tree
// root, as git expects it.
func (c *WorkflowContext) TreePath(file string) string {
	if c.Project == "" {
		return file
	}
	return path.Join(filepath.ToSlash(c.Project), file)
}

// DefaultBranch is the short name of the repository default branch.
func (c *WorkflowContext) DefaultBranch() string {
	return strings.TrimPrefix(c.Repository.DefaultBranch, "refs/heads/")
}
