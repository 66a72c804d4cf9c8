//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/gemupdate/internal/domain/commands"
	"github.com/rios0rios0/gemupdate/internal/domain/entities"
)

// SpyUpdateCommand implements commands.Update and records every target.
type SpyUpdateCommand struct {
	Report     *commands.UpdateReport
	ExecuteErr error
	Errs       map[string]error // per project path, wins over ExecuteErr
	Targets    []commands.UpdateTarget
	Options    []entities.UpdateOptions
}

var _ commands.Update = (*SpyUpdateCommand)(nil)

func (s *SpyUpdateCommand) Execute(
	_ context.Context,
	target commands.UpdateTarget,
	opts entities.UpdateOptions,
) (*commands.UpdateReport, error) {
	s.Targets = append(s.Targets, target)
	s.Options = append(s.Options, opts)
	if err, ok := s.Errs[target.Project]; ok {
		return nil, err
	}
	if s.ExecuteErr != nil {
		return nil, s.ExecuteErr
	}
	if s.Report != nil {
		return s.Report, nil
	}
	return &commands.UpdateReport{}, nil
}

// StubOutdatedCommand implements commands.Outdated with a fixed answer.
type StubOutdatedCommand struct {
	Candidates []entities.UpgradeCandidate
	ExecuteErr error
	Dirs       []string
}

var _ commands.Outdated = (*StubOutdatedCommand)(nil)

func (s *StubOutdatedCommand) Execute(_ context.Context, dir string) ([]entities.UpgradeCandidate, error) {
	s.Dirs = append(s.Dirs, dir)
	return s.Candidates, s.ExecuteErr
}
