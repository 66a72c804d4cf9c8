package controllers

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
)

// loadSettings reads the --config file, or the first config file found in
// the default locations. Without any file the settings come from the
// environment alone.
func loadSettings(cmd *cobra.Command) (*entities.Settings, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		found, err := entities.FindConfigFile()
		if err != nil {
			logger.Debugf("No config file: %v, using environment only", err)
		}
		cfgPath = found
	}
	if cfgPath != "" {
		logger.Infof("Using config file: %s", cfgPath)
	}

	settings, err := entities.NewSettings(cfgPath)
	if err != nil {
		return nil, err
	}

	token, _ := cmd.Flags().GetString("token")
	settings.OverrideToken(token)
	return settings, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
