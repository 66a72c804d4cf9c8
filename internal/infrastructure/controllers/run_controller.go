package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/gemupdate/internal/domain/commands"
	"github.com/rios0rios0/gemupdate/internal/domain/entities"
)

// RunController handles the "run" subcommand (batch mode).
type RunController struct {
	command commands.Run
}

// NewRunController creates a new RunController.
func NewRunController(command commands.Run) *RunController {
	return &RunController{command: command}
}

// GetBind returns the Cobra command metadata for the run controller.
func (it *RunController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "run",
		Short: "Update gems across the configured repositories",
		Long: `Clone or fetch every configured repository, find its outdated gems
and open one pull request per gem for the most stale ones.

This is the main command intended to be used in a cronjob.
Repositories, subprojects and the token come from the config file
or from the GEMUPDATE_* environment variables.`,
	}
}

// Execute runs the batch update mode.
func (it *RunController) Execute(cmd *cobra.Command, _ []string) {
	ctx, cancel := signalContext()
	defer cancel()

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	repository, _ := cmd.Flags().GetString("repository")

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	logger.Info("Starting gemupdate run...")

	if runErr := it.command.Execute(ctx, settings, commands.RunOptions{
		DryRun:     dryRun,
		Verbose:    verbose,
		Repository: repository,
	}); runErr != nil {
		logger.Fatalf("Run failed: %v", runErr)
	}
}

// AddFlags adds the run-specific flags to the given Cobra command.
func (it *RunController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("repository", "r", "", "Only process this configured repository")
}
