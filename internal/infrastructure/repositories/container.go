package repositories

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
	domainRepos "github.com/rios0rios0/gemupdate/internal/domain/repositories"
	adoRepo "github.com/rios0rios0/gemupdate/internal/infrastructure/repositories/azuredevops"
	bundlerRepo "github.com/rios0rios0/gemupdate/internal/infrastructure/repositories/bundler"
	gitRepo "github.com/rios0rios0/gemupdate/internal/infrastructure/repositories/git"
	ghRepo "github.com/rios0rios0/gemupdate/internal/infrastructure/repositories/github"
	glRepo "github.com/rios0rios0/gemupdate/internal/infrastructure/repositories/gitlab"
	processRepo "github.com/rios0rios0/gemupdate/internal/infrastructure/repositories/process"
	rubygemsRepo "github.com/rios0rios0/gemupdate/internal/infrastructure/repositories/rubygems"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register provider registry with all provider factories
	if err := container.Provide(func() *ProviderRegistry {
		reg := NewProviderRegistry()
		reg.Register(entities.ProviderGitHub, ghRepo.NewGitHubProviderRepository)
		reg.Register(entities.ProviderGitLab, glRepo.NewGitLabProviderRepository)
		reg.Register(entities.ProviderAzureDevOps, adoRepo.NewAzureDevOpsProviderRepository)
		return reg
	}); err != nil {
		return err
	}

	// One process runner is shared so the git environment set up by
	// Configure reaches every command.
	if err := container.Provide(func() domainRepos.ProcessRunner {
		return processRepo.NewProcessRunner()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(runner domainRepos.ProcessRunner) domainRepos.VersionControlRepository {
		return gitRepo.NewVersionControlRepository(runner)
	}); err != nil {
		return err
	}
	if err := container.Provide(func(runner domainRepos.ProcessRunner) domainRepos.DependencyManagerRepository {
		return bundlerRepo.NewDependencyManagerRepository(runner)
	}); err != nil {
		return err
	}
	if err := container.Provide(func() domainRepos.MetadataRepository {
		return rubygemsRepo.NewMetadataRepository()
	}); err != nil {
		return err
	}

	return nil
}
