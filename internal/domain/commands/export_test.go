//go:build unit

package commands

import (
	"context"
	"time"

	"github.com/rios0rios0/gemupdate/internal/domain/repositories"
)

//nolint:gochecknoglobals // test export
var ChangeBranch = changeBranch

// NewUpdateCommandWithWait replaces the proposal delay with wait.
func NewUpdateCommandWithWait(
	dependencyManager repositories.DependencyManagerRepository,
	metadata repositories.MetadataRepository,
	outdated Outdated,
	wait func(ctx context.Context, delay time.Duration) error,
) *UpdateCommand {
	command := NewUpdateCommand(dependencyManager, metadata, outdated)
	command.wait = wait
	return command
}
