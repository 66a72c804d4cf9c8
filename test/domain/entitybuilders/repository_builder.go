//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
)

// RepositoryBuilder helps create test repositories with a fluent interface.
type RepositoryBuilder struct {
	*testkit.BaseBuilder
	name          string
	organization  string
	project       string
	defaultBranch string
	provider      string
}

// NewRepositoryBuilder creates a new repository builder with sensible defaults.
func NewRepositoryBuilder() *RepositoryBuilder {
	return &RepositoryBuilder{
		BaseBuilder:   testkit.NewBaseBuilder(),
		name:          "shop",
		organization:  "acme",
		defaultBranch: "refs/heads/main",
		provider:      entities.ProviderGitHub,
	}
}

// WithName sets the repository name.
func (b *RepositoryBuilder) WithName(name string) *RepositoryBuilder {
	b.name = name
	return b
}

// WithOrganization sets the owner, group or organization.
func (b *RepositoryBuilder) WithOrganization(organization string) *RepositoryBuilder {
	b.organization = organization
	return b
}

// WithProject sets the Azure DevOps project.
func (b *RepositoryBuilder) WithProject(project string) *RepositoryBuilder {
	b.project = project
	return b
}

// WithDefaultBranch sets the default branch (short name or full ref).
func (b *RepositoryBuilder) WithDefaultBranch(branch string) *RepositoryBuilder {
	b.defaultBranch = branch
	return b
}

// WithProvider sets the provider name.
func (b *RepositoryBuilder) WithProvider(provider string) *RepositoryBuilder {
	b.provider = provider
	return b
}

// Build creates the repository (satisfies testkit.Builder interface).
func (b *RepositoryBuilder) Build() interface{} {
	return b.BuildRepository()
}

// BuildRepository creates the repository with a concrete return type.
func (b *RepositoryBuilder) BuildRepository() entities.Repository {
	return entities.Repository{
		ID:            b.name,
		Name:          b.name,
		Organization:  b.organization,
		Project:       b.project,
		DefaultBranch: b.defaultBranch,
		RemoteURL:     "https://example.com/" + b.organization + "/" + b.name + ".git",
		ProviderName:  b.provider,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *RepositoryBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "shop"
	b.organization = "acme"
	b.project = ""
	b.defaultBranch = "refs/heads/main"
	b.provider = entities.ProviderGitHub
	return b
}

// Clone creates a deep copy of the RepositoryBuilder.
func (b *RepositoryBuilder) Clone() testkit.Builder {
	return &RepositoryBuilder{
		BaseBuilder:   b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:          b.name,
		organization:  b.organization,
		project:       b.project,
		defaultBranch: b.defaultBranch,
		provider:      b.provider,
	}
}
