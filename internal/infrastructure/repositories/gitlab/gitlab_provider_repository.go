package gitlab

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
	"github.com/rios0rios0/gemupdate/internal/domain/repositories"
)

const providerName = entities.ProviderGitLab

var errClientNotInitialized = errors.New("gitlab client not initialized")

// GitLabProviderRepository implements repositories.ProviderRepository for GitLab.
type GitLabProviderRepository struct {
	client *gl.Client
}

// NewGitLabProviderRepository creates a new GitLab provider with the given token.
func NewGitLabProviderRepository(token string) repositories.ProviderRepository {
	return newGitLabProviderRepository(token)
}

func newGitLabProviderRepository(token string, options ...gl.ClientOptionFunc) *GitLabProviderRepository {
	client, err := gl.NewClient(token, options...)
	if err != nil {
		// Return a provider that will fail on use rather than panicking at construction
		return &GitLabProviderRepository{client: nil}
	}
	return &GitLabProviderRepository{client: client}
}

func (p *GitLabProviderRepository) Name() string { return providerName }

func (p *GitLabProviderRepository) MatchesURL(rawURL string) bool {
	return strings.Contains(rawURL, "gitlab.com")
}

func (p *GitLabProviderRepository) CreatePullRequest(
	ctx context.Context,
	repo entities.Repository,
	input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	if p.client == nil {
		return nil, errClientNotInitialized
	}

	sourceBranch := strings.TrimPrefix(input.SourceBranch, "refs/heads/")
	targetBranch := strings.TrimPrefix(input.TargetBranch, "refs/heads/")

	mr, _, err := p.client.MergeRequests.CreateMergeRequest(
		projectPath(repo),
		&gl.CreateMergeRequestOptions{
			Title:              gl.Ptr(input.Title),
			Description:        gl.Ptr(input.Description),
			SourceBranch:       gl.Ptr(sourceBranch),
			TargetBranch:       gl.Ptr(targetBranch),
			RemoveSourceBranch: gl.Ptr(true),
		},
		gl.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create merge request: %w", err)
	}

	return &entities.PullRequest{
		ID:     int(mr.IID),
		Title:  mr.Title,
		URL:    mr.WebURL,
		Status: mr.State,
	}, nil
}

func (p *GitLabProviderRepository) PullRequestExists(
	ctx context.Context,
	repo entities.Repository,
	sourceBranch string,
) (bool, error) {
	if p.client == nil {
		return false, errClientNotInitialized
	}

	mrs, _, err := p.client.MergeRequests.ListProjectMergeRequests(
		projectPath(repo),
		&gl.ListProjectMergeRequestsOptions{
			SourceBranch: gl.Ptr(strings.TrimPrefix(sourceBranch, "refs/heads/")),
			State:        gl.Ptr("opened"),
		},
		gl.WithContext(ctx),
	)
	if err != nil {
		return false, fmt.Errorf("failed to list merge requests: %w", err)
	}

	return len(mrs) > 0, nil
}

// projectPath is the namespaced path GitLab accepts in place of a numeric
// project ID (subgroups included).
func projectPath(repo entities.Repository) string {
	return repo.Organization + "/" + repo.Name
}
