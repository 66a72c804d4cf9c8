//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"strings"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
	"github.com/rios0rios0/gemupdate/internal/domain/repositories"
)

// SpyProviderRepository implements repositories.ProviderRepository as a configurable spy.
type SpyProviderRepository struct {
	// --- identity ---
	ProviderName string
	URLPattern   string // MatchesURL reports whether the URL contains it

	// --- CreatePullRequest ---
	CreatedPR   *entities.PullRequest
	CreatePRErr error
	PRInputs    []entities.PullRequestInput

	// --- PullRequestExists ---
	PRExistsResult   bool
	PRExistsErr      error
	PRExistsBranches []string
}

var _ repositories.ProviderRepository = (*SpyProviderRepository)(nil)

func (p *SpyProviderRepository) Name() string { return p.ProviderName }

func (p *SpyProviderRepository) MatchesURL(rawURL string) bool {
	return p.URLPattern != "" && strings.Contains(rawURL, p.URLPattern)
}

func (p *SpyProviderRepository) CreatePullRequest(
	_ context.Context, _ entities.Repository, input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	p.PRInputs = append(p.PRInputs, input)
	if p.CreatePRErr != nil {
		return nil, p.CreatePRErr
	}
	if p.CreatedPR != nil {
		return p.CreatedPR, nil
	}
	return &entities.PullRequest{
		ID:    len(p.PRInputs),
		Title: input.Title,
		URL:   fmt.Sprintf("https://example.com/pr/%d", len(p.PRInputs)),
	}, nil
}

func (p *SpyProviderRepository) PullRequestExists(
	_ context.Context, _ entities.Repository, branch string,
) (bool, error) {
	p.PRExistsBranches = append(p.PRExistsBranches, branch)
	return p.PRExistsResult, p.PRExistsErr
}

// DummyProviderRepository is a no-op implementation of repositories.ProviderRepository.
type DummyProviderRepository struct{}

var _ repositories.ProviderRepository = (*DummyProviderRepository)(nil)

func (d *DummyProviderRepository) Name() string             { return "dummy" }
func (d *DummyProviderRepository) MatchesURL(_ string) bool { return false }

func (d *DummyProviderRepository) CreatePullRequest(
	_ context.Context, _ entities.Repository, _ entities.PullRequestInput,
) (*entities.PullRequest, error) {
	return nil, nil //nolint:nilnil // dummy no-op
}

func (d *DummyProviderRepository) PullRequestExists(
	_ context.Context, _ entities.Repository, _ string,
) (bool, error) {
	return false, nil
}
