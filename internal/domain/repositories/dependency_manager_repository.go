package repositories

import (
	"context"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
)

// DependencyManagerRepository drives the package manager of a project
// (Bundler for Ruby projects).
type DependencyManagerRepository interface {
	// Name returns the dependency manager identifier (e.g. "bundler").
	Name() string

	// LockFile is the lock file path relative to the project directory.
	LockFile() string

	// Install syncs the installed dependencies with the lock file.
	Install(ctx context.Context, dir string) error

	// Outdated returns the raw "list outdated" report for one tier. A report
	// produced with a non-zero exit status is still returned.
	Outdated(ctx context.Context, dir string, severity entities.Severity) (string, error)

	// Upgrade updates exactly one dependency within its tier.
	Upgrade(ctx context.Context, dir string, candidate entities.UpgradeCandidate) error
}
