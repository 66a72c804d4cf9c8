package main

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/gemupdate/internal"
	"github.com/rios0rios0/gemupdate/internal/infrastructure/controllers"
)

func buildRootCommand(localController *controllers.LocalController) *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "gemupdate [path]",
		Short: "Automated gem upgrade pull requests",
		Long: `Finds outdated gems in Bundler projects, updates them one at a time
on their own branch and opens a pull request per gem.

Supports GitHub, GitLab, and Azure DevOps as Git hosting providers.

Usage modes:
  gemupdate .                  Update the current local repository (standalone mode)
  gemupdate /path/to/repo      Update a specific local repository
  gemupdate run                Batch mode over the configured repositories (cronjob)
  gemupdate outdated [path]    Print the ranked outdated gems`,
		Args: cobra.MaximumNArgs(1),
		PersistentPreRun: func(command *cobra.Command, _ []string) {
			if verbose, _ := command.Flags().GetBool("verbose"); verbose {
				logger.SetLevel(logger.DebugLevel)
			}
		},
		RunE: func(command *cobra.Command, args []string) error {
			if len(args) == 0 {
				return command.Help()
			}
			localController.Execute(command, args)
			return nil
		},
	}

	// Global persistent flags
	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to config file, YAML or HCL (default: auto-detect)")
	cmd.PersistentFlags().String("token", "",
		"Auth token for the Git provider (overrides config and env var detection)")
	cmd.PersistentFlags().Bool("dry-run", false,
		"Show what would be updated without touching git")
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output")

	return cmd
}

func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		ctrl := controller // capture for closure
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:   bind.Use,
			Short: bind.Short,
			Long:  bind.Long,
			Args:  cobra.MaximumNArgs(1),
			Run: func(command *cobra.Command, arguments []string) {
				ctrl.Execute(command, arguments)
			},
		}

		// Add controller-specific flags
		if rc, ok := ctrl.(*controllers.RunController); ok {
			rc.AddFlags(subCmd)
		}

		rootCmd.AddCommand(subCmd)
	}
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	appContext, localController := injectAppContext()
	cobraRoot := buildRootCommand(localController)
	addSubcommands(cobraRoot, appContext)

	if err := cobraRoot.Execute(); err != nil {
		logger.Fatalf("Error executing 'gemupdate': %s", err)
	}
}
