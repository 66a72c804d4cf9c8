package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
	"github.com/rios0rios0/gemupdate/internal/domain/repositories"
)

// Outdated is the interface for the outdated detector.
type Outdated interface {
	Execute(ctx context.Context, dir string) ([]entities.UpgradeCandidate, error)
}

// OutdatedCommand queries the dependency manager tier by tier and ranks the
// reported dependencies, most stale first.
type OutdatedCommand struct {
	dependencyManager repositories.DependencyManagerRepository
}

// NewOutdatedCommand creates a new OutdatedCommand.
func NewOutdatedCommand(dependencyManager repositories.DependencyManagerRepository) *OutdatedCommand {
	return &OutdatedCommand{dependencyManager: dependencyManager}
}

// Execute returns the deduplicated candidates of all tiers in ranked order.
func (it *OutdatedCommand) Execute(ctx context.Context, dir string) ([]entities.UpgradeCandidate, error) {
	tiers := make([][]entities.UpgradeCandidate, 0, len(entities.Severities()))

	for _, severity := range entities.Severities() {
		report, err := it.dependencyManager.Outdated(ctx, dir, severity)
		if err != nil {
			return nil, fmt.Errorf("failed to list outdated %s dependencies: %w", severity, err)
		}

		tier := entities.ParseOutdatedReport(report, severity)
		logger.Debugf("[%s] %d outdated %s dependencies", it.dependencyManager.Name(), len(tier), severity)
		tiers = append(tiers, tier)
	}

	ranked := entities.RankCandidates(tiers...)
	logger.Infof("[%s] Found %d outdated dependencies in %s", it.dependencyManager.Name(), len(ranked), dir)
	return ranked, nil
}
