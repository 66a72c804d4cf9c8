//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
	"github.com/rios0rios0/gemupdate/internal/domain/repositories"
)

// SpyDependencyManagerRepository implements repositories.DependencyManagerRepository
// as a configurable spy.
type SpyDependencyManagerRepository struct {
	// --- Install ---
	InstallErr   error
	InstallCalls []string

	// --- Outdated ---
	Reports       map[entities.Severity]string
	OutdatedErr   error
	OutdatedCalls []entities.Severity

	// --- Upgrade ---
	UpgradeErr  error
	UpgradeErrs map[string]error // per dependency name, wins over UpgradeErr
	Upgraded    []entities.UpgradeCandidate
	UpgradeDirs []string
	OnUpgrade   func(candidate entities.UpgradeCandidate)
}

var _ repositories.DependencyManagerRepository = (*SpyDependencyManagerRepository)(nil)

func (s *SpyDependencyManagerRepository) Name() string     { return "spy" }
func (s *SpyDependencyManagerRepository) LockFile() string { return "Gemfile.lock" }

func (s *SpyDependencyManagerRepository) Install(_ context.Context, dir string) error {
	s.InstallCalls = append(s.InstallCalls, dir)
	return s.InstallErr
}

func (s *SpyDependencyManagerRepository) Outdated(
	_ context.Context, _ string, severity entities.Severity,
) (string, error) {
	s.OutdatedCalls = append(s.OutdatedCalls, severity)
	if s.OutdatedErr != nil {
		return "", s.OutdatedErr
	}
	return s.Reports[severity], nil
}

func (s *SpyDependencyManagerRepository) Upgrade(
	_ context.Context, dir string, candidate entities.UpgradeCandidate,
) error {
	s.Upgraded = append(s.Upgraded, candidate)
	s.UpgradeDirs = append(s.UpgradeDirs, dir)
	if s.OnUpgrade != nil {
		s.OnUpgrade(candidate)
	}
	if err, ok := s.UpgradeErrs[candidate.Name]; ok {
		return err
	}
	return s.UpgradeErr
}

// StubMetadataRepository implements repositories.MetadataRepository with a fixed table.
type StubMetadataRepository struct {
	URIs    map[string]string
	Lookups []string
}

var _ repositories.MetadataRepository = (*StubMetadataRepository)(nil)

func (s *StubMetadataRepository) SourceURI(_ context.Context, _, name string) string {
	s.Lookups = append(s.Lookups, name)
	return s.URIs[name]
}
