// Package commands implements the fittrackd admin CLI
package commands

import (
	"github.com/spf13/cobra"

	"github.com/fittrackd/fittrackd/config"
	"github.com/fittrackd/fittrackd/internal/app"
	"github.com/fittrackd/fittrackd/internal/db"
	"github.com/fittrackd/fittrackd/internal/logger"
)

func init() {
	RootCmd.AddCommand(tasksCmd)
	RootCmd.AddCommand(workerCmd)
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "fittrackd",
	Short: "fittrackd CLI - administration commands for the fittrackd backend",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		config.Load()
		logger.Init()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// buildApp wires the application from environment configuration
func buildApp() (*app.App, error) {
	return app.New(app.Options{
		DB: db.Options{
			Host:     config.GetEnv("DB_HOST", db.DefaultHost),
			User:     config.GetEnv("DB_USER", db.DefaultUser),
			Password: config.GetEnv("DB_PASSWORD", db.DefaultPassword),
			DBName:   config.GetEnv("DB_NAME", db.DefaultDBName),
			Port:     config.GetEnvInt("DB_PORT", db.DefaultPort),
		},
		EmailEnabled: config.GetEnvBool("EMAIL_ENABLED", false),
		ExportDir:    config.GetEnv("EXPORT_DIR", "/tmp/fittrackd/exports"),
	})
}
