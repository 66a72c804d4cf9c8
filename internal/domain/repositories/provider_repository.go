package repositories

import (
	"context"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
)

// ProviderRepository abstracts the code-hosting platform (GitHub, GitLab,
// Azure DevOps) where update proposals are opened.
type ProviderRepository interface {
	// Name returns the provider identifier (e.g. "github").
	Name() string

	// MatchesURL returns true if the given remote URL belongs to this provider.
	MatchesURL(rawURL string) bool

	// CreatePullRequest opens a pull/merge request.
	CreatePullRequest(
		ctx context.Context,
		repo entities.Repository,
		input entities.PullRequestInput,
	) (*entities.PullRequest, error)

	// PullRequestExists checks if an open pull request already exists for the given source branch.
	PullRequestExists(ctx context.Context, repo entities.Repository, sourceBranch string) (bool, error)
}
