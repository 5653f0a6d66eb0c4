// Package command holds the cobra commands of the cinema binary.
package command

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/iliyamo/cinema-showtime-service/internal/logger"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "cinema",
	Short:         "Cinema showtime service",
	Long:          `Movie catalog, reviews and showtime scheduling over HTTP, plus operator tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil {
			// a missing default .env is fine; an explicit one must exist
			if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("env-file") {
				return err
			}
		}
		if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
			logger.SetLevel(lvl)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file with environment variables")
	rootCmd.AddCommand(serveCmd, migrateCmd, activityLogCmd, scheduleCmd)
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Get().WithError(err).Error("Command failed")
		os.Exit(1)
	}
}
