// Package cli is the overtrack command line: the API server plus offline views of the tracker.
package cli

import (
	"context"
	"os"

	"github.com/overtrack/overtrack/internal/app"
	"github.com/overtrack/overtrack/internal/config"
	"github.com/overtrack/overtrack/internal/utils"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the overtrack command tree.
func NewRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "overtrack",
		Short:         "Overtime labor spend tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path of the YAML configuration file")

	cmd.AddCommand(
		newServeCommand(&configPath),
		newWeekCommand(&configPath),
		newExportCommand(&configPath),
	)
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Application, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Application{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Application{}, err
	}
	return cfg, nil
}

// openTracker loads the configuration and opens the tracker on the system clock.
// The caller closes the returned dependencies.
func openTracker(ctx context.Context, configPath string) (*app.Dependencies, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return app.OpenDependencies(ctx, cfg, utils.SystemClock{})
}

func closeTracker(deps *app.Dependencies) {
	if err := deps.Close(); err != nil {
		log.Warnf("failed to close store: %v", err)
	}
}
