package command

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/cinema-showtime-service/internal/config"
	"github.com/iliyamo/cinema-showtime-service/internal/logger"
	"github.com/iliyamo/cinema-showtime-service/internal/queue"
)

var activityLogCmd = &cobra.Command{
	Use:   "activity-log",
	Short: "Append published activity events to a log file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadEventsConfig()
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log := logger.Get()
		log.WithField("queue", cfg.Queue).WithField("dir", cfg.LogDir).Info("activity-consumer: starting")
		err := queue.NewConsumer(cfg, log).Run(ctx)
		if errors.Is(err, context.Canceled) {
			log.Info("activity-consumer: stopped")
			return nil
		}
		return err
	},
}
