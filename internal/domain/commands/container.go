package commands

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register command constructors
	for _, constructor := range []interface{}{
		NewOutdatedCommand,
		NewUpdateCommand,
		NewRunCommand,
		NewLocalCommand,
	} {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *OutdatedCommand) Outdated {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *UpdateCommand) Update {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *RunCommand) Run {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *LocalCommand) Local {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
