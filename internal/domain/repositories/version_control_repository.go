package repositories

import (
	"context"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
)

// GitIdentity is the author used for commits made by the updater.
type GitIdentity struct {
	Name  string
	Email string
}

// WorkingTree is a handle on one checked-out directory. Every call mutates
// or reads the same shared checkout, so callers use it sequentially.
type WorkingTree interface {
	Dir() string
	CurrentBranch(ctx context.Context) (string, error)

	// DefaultBranch returns the branch origin/HEAD points to.
	DefaultBranch(ctx context.Context) (string, error)

	// RemoteURL returns the URL of the origin remote.
	RemoteURL(ctx context.Context) (string, error)

	// BranchExists reports whether the branch exists locally or on origin.
	BranchExists(ctx context.Context, name string) (bool, error)
	Checkout(ctx context.Context, name string, create bool) error
	Pull(ctx context.Context) error

	// MergeFrom merges branch into the current branch without opening an
	// editor. Conflicts surface as *entities.CommandFailure.
	MergeFrom(ctx context.Context, branch string) error

	// AbortMerge drops an unfinished merge. Without one it does nothing.
	AbortMerge(ctx context.Context) error

	// Discard drops uncommitted changes and untracked files.
	Discard(ctx context.Context) error

	// Commit stages everything and commits. A clean tree is not an error.
	Commit(ctx context.Context, message string) error

	// Push pushes the current branch to the same-named branch on origin.
	Push(ctx context.Context) error

	// CheckoutPath restores one path from another branch into the tree.
	CheckoutPath(ctx context.Context, branch, path string) error

	// Diff returns the unified diff of path between two revisions.
	Diff(ctx context.Context, from, to, path string) (string, error)
}

// VersionControlRepository prepares local checkouts of remote repositories.
type VersionControlRepository interface {
	// Configure performs the one-time setup: commit identity and rewriting
	// SSH remotes to (authenticated) HTTPS. The returned func undoes it.
	Configure(ctx context.Context, identity GitIdentity, providerType, token string) (func(), error)

	// EnsureReady clones repo into dir when it is missing, otherwise fetches
	// from origin without touching the checked-out files.
	EnsureReady(ctx context.Context, repo entities.Repository, dir string) (WorkingTree, error)

	// Open returns a handle on an existing checkout.
	Open(ctx context.Context, dir string) (WorkingTree, error)
}
