package controllers

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/gemupdate/internal/domain/commands"
	"github.com/rios0rios0/gemupdate/internal/domain/entities"
)

const tabPadding = 2

// OutdatedController handles the outdated subcommand (read-only report).
type OutdatedController struct {
	command commands.Outdated
}

// NewOutdatedController creates a new OutdatedController.
func NewOutdatedController(command commands.Outdated) *OutdatedController {
	return &OutdatedController{command: command}
}

// GetBind returns the Cobra command metadata for the outdated controller.
func (it *OutdatedController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "outdated [path]",
		Short: "List outdated gems, most stale first",
		Long: `Run the outdated detection on a Bundler project and print the
ranked candidates without touching git.`,
	}
}

// Execute prints the ranked candidates of a project.
func (it *OutdatedController) Execute(cmd *cobra.Command, args []string) {
	ctx, cancel := signalContext()
	defer cancel()

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		logger.Fatalf("invalid path: %v", err)
	}

	candidates, err := it.command.Execute(ctx, absDir)
	if err != nil {
		logger.Fatalf("Outdated check failed: %v", err)
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabPadding, ' ', 0)
	_, _ = fmt.Fprintln(writer, "GEM\tTIER\tINSTALLED\tNEWEST\tSCORE")
	for _, candidate := range candidates {
		_, _ = fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%d\n",
			candidate.Name, candidate.Severity, candidate.Installed, candidate.Newest, candidate.StalenessScore)
	}
	_ = writer.Flush()
}
