package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/gemupdate/internal/domain/commands"
	"github.com/rios0rios0/gemupdate/internal/domain/entities"
)

// LocalController handles the local subcommand (standalone mode on an existing checkout).
type LocalController struct {
	command commands.Local
}

// NewLocalController creates a new LocalController.
func NewLocalController(command commands.Local) *LocalController {
	return &LocalController{command: command}
}

// GetBind returns the Cobra command metadata for the local controller.
func (it *LocalController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "local [path]",
		Short: "Update gems in a local repository",
		Long: `Update the outdated gems of a local Git checkout.
The provider is detected from the origin remote and the current
branch is used as the base of every pull request.`,
	}
}

// Execute runs the local update mode.
func (it *LocalController) Execute(cmd *cobra.Command, args []string) {
	ctx, cancel := signalContext()
	defer cancel()

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	token, _ := cmd.Flags().GetString("token")

	repoDir := "."
	if len(args) > 0 {
		repoDir = args[0]
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	if err = it.command.Execute(ctx, settings, commands.LocalOptions{
		RepoDir: repoDir,
		DryRun:  dryRun,
		Verbose: verbose,
		Token:   token,
	}); err != nil {
		logger.Fatalf("Local update failed: %v", err)
	}
}
