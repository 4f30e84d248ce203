package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/granthours/internal/db"
	"github.com/alexanderramin/granthours/internal/service"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

func newAutoCloseCmd(app *App) *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "autoclose",
		Short: "Run the scheduled week-close daemon",
		Long: `Runs in the foreground and closes the week ending on the current
date each time the cron schedule fires. Already-closed weeks are a no-op,
so overlapping fires and restarts are safe.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if schedule == "" {
				schedule = app.AutoCloseSchedule
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

			c := cron.New()
			_, err := c.AddFunc(schedule, func() {
				weekEnding := time.Now().Format(time.DateOnly)
				result, err := app.Reports.CloseWeek(context.Background(), weekEnding)
				switch {
				case errors.Is(err, db.ErrLockTimeout):
					logger.Warn("autoclose deferred, store lock held", "week_ending", weekEnding)
				case err != nil:
					logger.Error("autoclose failed", "week_ending", weekEnding, "error", err)
				case result.Status == service.CloseAlreadyClosed:
					logger.Info("week already closed", "week_ending", weekEnding)
				default:
					logger.Info("week closed", "week_ending", weekEnding,
						"rows", len(result.Report.Rows), "entries", len(result.Report.IncludedEntryIDs))
				}
			})
			if err != nil {
				return fmt.Errorf("invalid schedule %q: %w", schedule, err)
			}

			c.Start()
			logger.Info("autoclose daemon started", "schedule", schedule)

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop

			<-c.Stop().Done()
			logger.Info("autoclose daemon stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "Cron schedule (defaults to configuration)")
	return cmd
}
