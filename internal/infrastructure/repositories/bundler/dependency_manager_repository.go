package bundler

import (
	"context"
	"fmt"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
	"github.com/rios0rios0/gemupdate/internal/domain/repositories"
)

const (
	name     = "bundler"
	binary   = "bundle"
	lockFile = "Gemfile.lock"
)

// DependencyManagerRepository runs Bundler commands in a project directory.
type DependencyManagerRepository struct {
	runner repositories.ProcessRunner
}

// NewDependencyManagerRepository creates a Bundler dependency manager.
func NewDependencyManagerRepository(runner repositories.ProcessRunner) *DependencyManagerRepository {
	return &DependencyManagerRepository{runner: runner}
}

var _ repositories.DependencyManagerRepository = (*DependencyManagerRepository)(nil)

func (it *DependencyManagerRepository) Name() string { return name }

func (it *DependencyManagerRepository) LockFile() string { return lockFile }

func (it *DependencyManagerRepository) Install(ctx context.Context, dir string) error {
	if _, err := it.runner.Run(ctx, dir, repositories.MustSucceed, binary, "install"); err != nil {
		return fmt.Errorf("bundle install failed: %w", err)
	}
	return nil
}

// Outdated runs "bundle outdated --parseable --<tier>". Bundler exits non-zero whenever
// something is outdated, so the exit status is ignored.
func (it *DependencyManagerRepository) Outdated(
	ctx context.Context,
	dir string,
	severity entities.Severity,
) (string, error) {
	result, err := it.runner.Run(ctx, dir, repositories.AllowFailure, binary, "outdated", "--parseable", "--"+string(severity))
	if err != nil {
		return "", err
	}
	return result.Output, nil
}

// Upgrade runs "bundle update --<tier> <name>" so only the one gem moves,
// and only within its tier.
func (it *DependencyManagerRepository) Upgrade(
	ctx context.Context,
	dir string,
	candidate entities.UpgradeCandidate,
) error {
	_, err := it.runner.Run(
		ctx, dir, repositories.MustSucceed,
		binary, "update", "--"+string(candidate.Severity), candidate.Name,
	)
	return err
}
