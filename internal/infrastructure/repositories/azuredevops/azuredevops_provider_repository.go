package azuredevops

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rios0rios0/gemupdate/internal/azuredevops"
	"github.com/rios0rios0/gemupdate/internal/domain/entities"
	"github.com/rios0rios0/gemupdate/internal/domain/repositories"
)

const providerName = entities.ProviderAzureDevOps

var errMissingProject = errors.New("azure devops repositories need a project")

// AzureDevOpsProviderRepository implements repositories.ProviderRepository
// for Azure DevOps through its REST API.
type AzureDevOpsProviderRepository struct {
	token   string
	baseURL string
}

// NewAzureDevOpsProviderRepository creates a new Azure DevOps provider with the given PAT.
func NewAzureDevOpsProviderRepository(token string) repositories.ProviderRepository {
	return newAzureDevOpsProviderRepository(token, "")
}

// newAzureDevOpsProviderRepository overrides the https://dev.azure.com root.
func newAzureDevOpsProviderRepository(token, baseURL string) *AzureDevOpsProviderRepository {
	return &AzureDevOpsProviderRepository{token: token, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (p *AzureDevOpsProviderRepository) Name() string { return providerName }

func (p *AzureDevOpsProviderRepository) MatchesURL(rawURL string) bool {
	return strings.Contains(rawURL, "dev.azure.com") || strings.Contains(rawURL, "visualstudio.com")
}

func (p *AzureDevOpsProviderRepository) CreatePullRequest(
	ctx context.Context,
	repo entities.Repository,
	input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	if repo.Project == "" {
		return nil, errMissingProject
	}

	client := p.client(repo)
	pr, err := client.CreatePullRequest(ctx, repo.Project, repo.Name, azuredevops.CreatePRRequest{
		SourceBranch: fullRef(input.SourceBranch),
		TargetBranch: fullRef(input.TargetBranch),
		Title:        input.Title,
		Description:  input.Description,
		AutoComplete: input.AutoComplete,
	})
	if pr == nil {
		return nil, err
	}
	if err != nil {
		// the pull request exists, only the follow-up call failed
		return toEntity(client, repo, pr), fmt.Errorf("failed to finish pull request: %w", err)
	}

	return toEntity(client, repo, pr), nil
}

func (p *AzureDevOpsProviderRepository) PullRequestExists(
	ctx context.Context,
	repo entities.Repository,
	sourceBranch string,
) (bool, error) {
	if repo.Project == "" {
		return false, errMissingProject
	}

	prs, err := p.client(repo).ActivePullRequests(ctx, repo.Project, repo.Name, fullRef(sourceBranch))
	if err != nil {
		return false, err
	}
	return len(prs) > 0, nil
}

func (p *AzureDevOpsProviderRepository) client(repo entities.Repository) *azuredevops.Client {
	organization := repo.Organization
	if p.baseURL != "" {
		organization = p.baseURL + "/" + repo.Organization
	}
	return azuredevops.NewClient(organization, p.token)
}

func toEntity(client *azuredevops.Client, repo entities.Repository, pr *azuredevops.PullRequest) *entities.PullRequest {
	return &entities.PullRequest{
		ID:     pr.ID,
		Title:  pr.Title,
		URL:    client.WebURL(repo.Project, repo.Name, pr.ID),
		Status: pr.Status,
	}
}

func fullRef(branch string) string {
	if strings.HasPrefix(branch, "refs/") {
		return branch
	}
	return "refs/heads/" + branch
}
