package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
	"github.com/rios0rios0/gemupdate/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/gemupdate/internal/infrastructure/repositories"
)

// Run is the interface for the run command (batch mode).
type Run interface {
	Execute(ctx context.Context, settings *entities.Settings, opts RunOptions) error
}

// RunOptions holds runtime options for a single run.
type RunOptions struct {
	DryRun     bool
	Verbose    bool
	Repository string // If set, only process this configured repository (CLI override)
}

// RunSummary counts the outcome of a run.
type RunSummary struct {
	Repositories int
	Failed       int
	Updated      int
	Proposals    int
}

// RunCommand orchestrates the full update flow over the configured
// repositories: fetch -> checkout default branch -> pull -> update each project.
type RunCommand struct {
	providerRegistry *infraRepos.ProviderRegistry
	versionControl   repositories.VersionControlRepository
	update           Update
}

// NewRunCommand creates a new RunCommand.
func NewRunCommand(
	providerRegistry *infraRepos.ProviderRegistry,
	versionControl repositories.VersionControlRepository,
	update Update,
) *RunCommand {
	return &RunCommand{
		providerRegistry: providerRegistry,
		versionControl:   versionControl,
		update:           update,
	}
}

// Execute runs the update cycle sequentially over every configured
// repository. A failing repository does not stop the loop, but makes the
// whole run return an error.
func (it *RunCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	runOpts RunOptions,
) error {
	if runOpts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	for _, warning := range settings.Warnings() {
		logger.Warn(warning.Error())
	}

	cleanup, err := it.versionControl.Configure(ctx, repositories.GitIdentity{
		Name:  settings.GitUserName,
		Email: settings.GitUserEmail,
	}, settings.Provider, settings.Token)
	if err != nil {
		return fmt.Errorf("failed to configure git: %w", err)
	}
	defer cleanup()

	summary := RunSummary{}
	opts := settings.UpdateOptions(runOpts.DryRun)

	for _, entry := range settings.Repositories {
		if runOpts.Repository != "" && entry != runOpts.Repository {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		summary.Repositories++
		report, repoErr := it.processRepository(ctx, settings, entry, opts)
		if repoErr != nil {
			logger.Errorf("Failed to process %s: %v", entry, repoErr)
			summary.Failed++
			continue
		}
		summary.Updated += len(report.Updated)
		summary.Proposals += len(report.Proposals)
	}

	logger.Infof(
		"Run complete: %d repos processed, %d dependencies updated, %d PRs created, %d errors",
		summary.Repositories, summary.Updated, summary.Proposals, summary.Failed,
	)

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d repositories failed", summary.Failed, summary.Repositories)
	}
	return nil
}

// processRepository prepares the checkout of one repository and runs the
// update workflow for each of its projects.
func (it *RunCommand) processRepository(
	ctx context.Context,
	settings *entities.Settings,
	entry string,
	opts entities.UpdateOptions,
) (*UpdateReport, error) {
	repo, err := entities.ParseRepositoryEntry(entry, settings.Provider)
	if err != nil {
		return nil, err
	}

	provider, err := it.providerRegistry.Get(repo.ProviderName, settings.Token)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(settings.WorkDir, repo.ProviderName, filepath.FromSlash(repo.Organization), repo.Name)
	logger.Infof("Preparing %s/%s in %s", repo.Organization, repo.Name, dir)

	tree, err := it.versionControl.EnsureReady(ctx, repo, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repository: %w", err)
	}

	defaultBranch, err := tree.DefaultBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve default branch: %w", err)
	}
	repo.DefaultBranch = "refs/heads/" + defaultBranch

	if err = tree.Checkout(ctx, defaultBranch, false); err != nil {
		return nil, fmt.Errorf("failed to checkout %s: %w", defaultBranch, err)
	}
	if err = tree.Pull(ctx); err != nil {
		return nil, fmt.Errorf("failed to pull %s: %w", defaultBranch, err)
	}

	projects := settings.ProjectsFor(entry)
	if len(projects) == 0 {
		projects = []string{""}
	}

	total := &UpdateReport{}
	var failed []string
	for _, project := range projects {
		report, updateErr := it.update.Execute(ctx, UpdateTarget{
			Repository: repo,
			Project:    strings.Trim(project, "/"),
			Tree:       tree,
			Provider:   provider,
		}, opts)
		if updateErr != nil {
			logger.Errorf("Failed to update project %q of %s: %v", project, entry, updateErr)
			failed = append(failed, project)
			if ctx.Err() != nil {
				return total, ctx.Err()
			}
			continue
		}
		total.Updated = append(total.Updated, report.Updated...)
		total.Failed = append(total.Failed, report.Failed...)
		total.Proposals = append(total.Proposals, report.Proposals...)
	}

	if len(failed) > 0 {
		return total, fmt.Errorf("%d of %d projects failed", len(failed), len(projects))
	}
	return total, nil
}
