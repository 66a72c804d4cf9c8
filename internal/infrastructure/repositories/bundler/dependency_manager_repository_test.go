//go:build unit

package bundler_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
	"github.com/rios0rios0/gemupdate/internal/domain/repositories"
	"github.com/rios0rios0/gemupdate/internal/infrastructure/repositories/bundler"
	"github.com/rios0rios0/gemupdate/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/gemupdate/test/infrastructure/repositorydoubles"
)

func TestDependencyManagerRepository(t *testing.T) {
	t.Parallel()

	t.Run("should name bundler and its lock file", func(t *testing.T) {
		t.Parallel()
		// given
		repo := bundler.NewDependencyManagerRepository(&doubles.SpyProcessRunner{})

		// when / then
		assert.Equal(t, "bundler", repo.Name())
		assert.Equal(t, "Gemfile.lock", repo.LockFile())
	})

	t.Run("should install strictly", func(t *testing.T) {
		t.Parallel()
		// given
		runner := &doubles.SpyProcessRunner{}
		repo := bundler.NewDependencyManagerRepository(runner)

		// when
		err := repo.Install(context.Background(), "/repo")

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"bundle install"}, runner.Commands)
		assert.Equal(t, []repositories.RunMode{repositories.MustSucceed}, runner.Modes)
	})

	t.Run("should wrap an install failure", func(t *testing.T) {
		t.Parallel()
		// given
		runner := &doubles.SpyProcessRunner{
			Err: &entities.CommandFailure{Command: "bundle install", ExitCode: 7},
		}
		repo := bundler.NewDependencyManagerRepository(runner)

		// when
		err := repo.Install(context.Background(), "/repo")

		// then
		var failure *entities.CommandFailure
		require.ErrorAs(t, err, &failure)
		assert.Equal(t, 7, failure.ExitCode)
	})

	t.Run("should list outdated gems of one tier tolerating the exit status", func(t *testing.T) {
		t.Parallel()
		// given
		runner := &doubles.SpyProcessRunner{
			Result: repositories.ProcessResult{Output: "  * rack (newest 2.2.9, installed 2.2.8)\n"},
		}
		repo := bundler.NewDependencyManagerRepository(runner)

		// when
		output, err := repo.Outdated(context.Background(), "/repo", entities.SeverityMinor)

		// then
		require.NoError(t, err)
		assert.Contains(t, output, "rack")
		assert.Equal(t, []string{"bundle outdated --parseable --minor"}, runner.Commands)
		assert.Equal(t, []repositories.RunMode{repositories.AllowFailure}, runner.Modes)
	})

	t.Run("should return the error when bundle cannot start", func(t *testing.T) {
		t.Parallel()
		// given
		runner := &doubles.SpyProcessRunner{Err: errors.New("executable file not found")}
		repo := bundler.NewDependencyManagerRepository(runner)

		// when
		_, err := repo.Outdated(context.Background(), "/repo", entities.SeverityPatch)

		// then
		require.Error(t, err)
	})

	t.Run("should update a single gem within its tier", func(t *testing.T) {
		t.Parallel()
		// given
		runner := &doubles.SpyProcessRunner{}
		repo := bundler.NewDependencyManagerRepository(runner)
		candidate := entitybuilders.NewCandidateBuilder().
			WithName("rails").WithSeverity(entities.SeverityMajor).BuildCandidate()

		// when
		err := repo.Upgrade(context.Background(), "/repo", candidate)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"bundle update --major rails"}, runner.Commands)
		assert.Equal(t, []repositories.RunMode{repositories.MustSucceed}, runner.Modes)
	})
}
