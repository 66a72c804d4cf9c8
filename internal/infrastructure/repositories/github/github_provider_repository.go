package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v66/github"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
	"github.com/rios0rios0/gemupdate/internal/domain/repositories"
)

const providerName = entities.ProviderGitHub

// GitHubProviderRepository implements repositories.ProviderRepository for GitHub.
type GitHubProviderRepository struct {
	client *gh.Client
}

// NewGitHubProviderRepository creates a new GitHub provider with the given token.
func NewGitHubProviderRepository(token string) repositories.ProviderRepository {
	return newGitHubProviderRepository(token, nil)
}

// newGitHubProviderRepository points the client at another API root (a
// GitHub Enterprise server, or a test server).
func newGitHubProviderRepository(token string, baseURL *url.URL) *GitHubProviderRepository {
	client := gh.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if baseURL != nil {
		client.BaseURL = baseURL
	}
	return &GitHubProviderRepository{client: client}
}

func (p *GitHubProviderRepository) Name() string { return providerName }

func (p *GitHubProviderRepository) MatchesURL(rawURL string) bool {
	return strings.Contains(rawURL, "github.com")
}

func (p *GitHubProviderRepository) CreatePullRequest(
	ctx context.Context,
	repo entities.Repository,
	input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	sourceBranch := strings.TrimPrefix(input.SourceBranch, "refs/heads/")
	targetBranch := strings.TrimPrefix(input.TargetBranch, "refs/heads/")

	maintainerCanModify := true
	pr, _, err := p.client.PullRequests.Create(
		ctx, repo.Organization, repo.Name,
		&gh.NewPullRequest{
			Title:               &input.Title,
			Head:                &sourceBranch,
			Base:                &targetBranch,
			Body:                &input.Description,
			MaintainerCanModify: &maintainerCanModify,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}

	return &entities.PullRequest{
		ID:     pr.GetNumber(),
		Title:  pr.GetTitle(),
		URL:    pr.GetHTMLURL(),
		Status: pr.GetState(),
	}, nil
}

func (p *GitHubProviderRepository) PullRequestExists(
	ctx context.Context,
	repo entities.Repository,
	sourceBranch string,
) (bool, error) {
	prs, _, err := p.client.PullRequests.List(
		ctx, repo.Organization, repo.Name,
		&gh.PullRequestListOptions{
			Head:  repo.Organization + ":" + strings.TrimPrefix(sourceBranch, "refs/heads/"),
			State: "open",
		},
	)
	if err != nil {
		return false, fmt.Errorf("failed to list pull requests: %w", err)
	}

	return len(prs) > 0, nil
}
