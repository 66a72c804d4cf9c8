package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
	"github.com/rios0rios0/gemupdate/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/gemupdate/internal/infrastructure/repositories"
)

const gemfile = "Gemfile"

// Local is the interface for the local command (standalone mode).
type Local interface {
	Execute(ctx context.Context, settings *entities.Settings, opts LocalOptions) error
}

// LocalOptions holds runtime options for the local mode.
type LocalOptions struct {
	RepoDir string
	DryRun  bool
	Verbose bool
	Token   string
}

// LocalCommand runs the update workflow on an existing checkout. The
// provider is detected from the origin remote and the current branch is
// treated as the default branch.
type LocalCommand struct {
	providerRegistry *infraRepos.ProviderRegistry
	versionControl   repositories.VersionControlRepository
	update           Update
}

// NewLocalCommand creates a new LocalCommand.
func NewLocalCommand(
	providerRegistry *infraRepos.ProviderRegistry,
	versionControl repositories.VersionControlRepository,
	update Update,
) *LocalCommand {
	return &LocalCommand{
		providerRegistry: providerRegistry,
		versionControl:   versionControl,
		update:           update,
	}
}

// Execute is the entry point for the standalone local mode.
func (it *LocalCommand) Execute(ctx context.Context, settings *entities.Settings, opts LocalOptions) error {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	repoDir, err := filepath.Abs(opts.RepoDir)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	if _, statErr := os.Stat(filepath.Join(repoDir, gemfile)); statErr != nil {
		return fmt.Errorf("no %s found in %s", gemfile, repoDir)
	}

	tree, err := it.versionControl.Open(ctx, repoDir)
	if err != nil {
		return err
	}

	remoteURL, err := tree.RemoteURL(ctx)
	if err != nil {
		return fmt.Errorf("failed to detect git provider: %w", err)
	}
	providerName, err := it.providerRegistry.Detect(remoteURL)
	if err != nil {
		return fmt.Errorf("failed to detect git provider: %w", err)
	}
	remote, err := entities.ParseRemoteURL(remoteURL)
	if err != nil {
		return fmt.Errorf("failed to detect git provider: %w", err)
	}
	remote.ProviderType = providerName
	logger.Infof("Detected provider: %s, org: %s, repo: %s", remote.ProviderType, remote.Org, remote.RepoName)

	token := opts.Token
	if token == "" {
		token = entities.TokenFromEnv(remote.ProviderType)
	}
	if !opts.DryRun && token == "" {
		return fmt.Errorf(
			"no auth token found for %s; set --token or the appropriate env var (%s)",
			remote.ProviderType, entities.TokenEnvHint(remote.ProviderType),
		)
	}

	currentBranch, err := tree.CurrentBranch(ctx)
	if err != nil {
		return fmt.Errorf("failed to detect current branch: %w", err)
	}
	logger.Infof("Default branch: %s", currentBranch)

	provider, err := it.providerRegistry.Get(remote.ProviderType, token)
	if err != nil {
		return err
	}

	cleanup, err := it.versionControl.Configure(ctx, repositories.GitIdentity{
		Name:  settings.GitUserName,
		Email: settings.GitUserEmail,
	}, remote.ProviderType, token)
	if err != nil {
		return fmt.Errorf("failed to configure git: %w", err)
	}
	defer cleanup()

	repo := entities.Repository{
		ID:            remote.RepoName,
		Name:          remote.RepoName,
		Organization:  remote.Org,
		Project:       remote.Project,
		DefaultBranch: "refs/heads/" + currentBranch,
		RemoteURL:     remoteURL,
		ProviderName:  remote.ProviderType,
	}

	report, err := it.update.Execute(ctx, UpdateTarget{
		Repository: repo,
		Tree:       tree,
		Provider:   provider,
	}, settings.UpdateOptions(opts.DryRun))
	if err != nil {
		return err
	}

	logger.Infof(
		"Local update complete: %d dependencies updated, %d failed, %d PRs created",
		len(report.Updated), len(report.Failed), len(report.Proposals),
	)
	return nil
}
