//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/gemupdate/internal/domain/commands"
	"github.com/rios0rios0/gemupdate/internal/domain/entities"
)

// StubLocalCommand is a stub implementation of commands.Local.
type StubLocalCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	LastSettings     *entities.Settings
	LastOpts         commands.LocalOptions
}

var _ commands.Local = (*StubLocalCommand)(nil)

func (s *StubLocalCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.LocalOptions,
) error {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	return s.ExecuteErr
}
