//go:build unit

package commands_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/gemupdate/internal/domain/commands"
	"github.com/rios0rios0/gemupdate/internal/domain/entities"
	commanddoubles "github.com/rios0rios0/gemupdate/test/domain/commanddoubles"
	doubles "github.com/rios0rios0/gemupdate/test/infrastructure/repositorydoubles"
)

func githubSpy() *doubles.SpyProviderRepository {
	return &doubles.SpyProviderRepository{ProviderName: entities.ProviderGitHub, URLPattern: "github.com"}
}

func gemProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Gemfile"), []byte("source \"https://rubygems.org\"\n"), 0o600))
	return dir
}

func TestLocalCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should run the workflow on the checkout with the current branch as default", func(t *testing.T) {
		t.Parallel()
		// given
		dir := gemProject(t)
		vc := doubles.NewSpyVersionControlRepository()
		tree := doubles.NewSpyWorkingTree(dir)
		tree.Branch = "develop"
		vc.Trees[dir] = tree
		update := &commanddoubles.SpyUpdateCommand{}
		command := commands.NewLocalCommand(spyRegistry(githubSpy()), vc, update)

		// when
		err := command.Execute(context.Background(), &entities.Settings{Limit: 1}, commands.LocalOptions{
			RepoDir: dir,
			Token:   "secret",
		})

		// then
		require.NoError(t, err)
		require.Len(t, update.Targets, 1)
		repo := update.Targets[0].Repository
		assert.Equal(t, "refs/heads/develop", repo.DefaultBranch)
		assert.Equal(t, "acme", repo.Organization)
		assert.Equal(t, "shop", repo.Name)
		assert.Equal(t, entities.ProviderGitHub, repo.ProviderName)
		assert.Equal(t, "secret", vc.ConfiguredToken)
		assert.True(t, vc.CleanedUp)
		assert.Equal(t, 1, update.Options[0].Limit)
	})

	t.Run("should refuse a directory without a Gemfile", func(t *testing.T) {
		t.Parallel()
		// given
		vc := doubles.NewSpyVersionControlRepository()
		update := &commanddoubles.SpyUpdateCommand{}
		command := commands.NewLocalCommand(spyRegistry(githubSpy()), vc, update)

		// when
		err := command.Execute(context.Background(), &entities.Settings{}, commands.LocalOptions{
			RepoDir: t.TempDir(),
			Token:   "secret",
		})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no Gemfile found")
		assert.Empty(t, update.Targets)
	})

	t.Run("should fail on a remote that belongs to no known provider", func(t *testing.T) {
		t.Parallel()
		// given
		dir := gemProject(t)
		vc := doubles.NewSpyVersionControlRepository()
		tree := doubles.NewSpyWorkingTree(dir)
		tree.Remote = "https://git.example.com/acme/shop.git"
		vc.Trees[dir] = tree
		update := &commanddoubles.SpyUpdateCommand{}
		command := commands.NewLocalCommand(spyRegistry(githubSpy()), vc, update)

		// when
		err := command.Execute(context.Background(), &entities.Settings{}, commands.LocalOptions{
			RepoDir: dir,
			Token:   "secret",
		})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to detect git provider")
	})
}

// Not parallel: clears the provider token variables.
func TestLocalCommandExecuteWithoutToken(t *testing.T) {
	for _, name := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
		t.Setenv(name, "")
	}

	t.Run("should require a token outside dry-run", func(t *testing.T) {
		// given
		dir := gemProject(t)
		vc := doubles.NewSpyVersionControlRepository()
		update := &commanddoubles.SpyUpdateCommand{}
		command := commands.NewLocalCommand(spyRegistry(githubSpy()), vc, update)

		// when
		err := command.Execute(context.Background(), &entities.Settings{}, commands.LocalOptions{RepoDir: dir})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GITHUB_TOKEN or GH_TOKEN")
		assert.Empty(t, update.Targets)
	})

	t.Run("should run without a token in dry-run", func(t *testing.T) {
		// given
		dir := gemProject(t)
		vc := doubles.NewSpyVersionControlRepository()
		update := &commanddoubles.SpyUpdateCommand{}
		command := commands.NewLocalCommand(spyRegistry(githubSpy()), vc, update)

		// when
		err := command.Execute(context.Background(), &entities.Settings{}, commands.LocalOptions{
			RepoDir: dir,
			DryRun:  true,
		})

		// then
		require.NoError(t, err)
		require.Len(t, update.Options, 1)
		assert.True(t, update.Options[0].DryRun)
	})
}
