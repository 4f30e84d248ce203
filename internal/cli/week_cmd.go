package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/granthours/internal/cli/formatter"
	"github.com/alexanderramin/granthours/internal/repository"
	"github.com/alexanderramin/granthours/internal/service"
	"github.com/spf13/cobra"
)

func newWeekCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Close weeks and inspect sealed reports",
	}
	cmd.AddCommand(
		newWeekCloseCmd(app),
		newWeekShowCmd(app),
		newWeekListCmd(app),
	)
	return cmd
}

func newWeekCloseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close <week-ending>",
		Short: "Close the 7-day window ending on the given date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Reports.CloseWeek(context.Background(), args[0])
			if err != nil {
				if errors.Is(err, service.ErrBadWeekEnding) {
					return fmt.Errorf("week-ending date must be YYYY-MM-DD, got %q", args[0])
				}
				return err
			}

			if result.Status == service.CloseAlreadyClosed {
				fmt.Println(formatter.Dim("Week already closed; existing report shown below."))
			}
			fmt.Print(formatter.FormatReport(result.Report, app.ReportPrefix))
			return nil
		},
	}
	return cmd
}

func newWeekShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <week-ending>",
		Short: "Show the sealed report for a closed week",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weekEnding, err := time.Parse(time.DateOnly, args[0])
			if err != nil {
				return fmt.Errorf("week-ending date must be YYYY-MM-DD, got %q", args[0])
			}

			rep, err := app.Reports.Get(context.Background(), weekEnding)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("no closed week ending %s", args[0])
				}
				return err
			}

			fmt.Print(formatter.FormatReport(rep, app.ReportPrefix))
			return nil
		},
	}
	return cmd
}

func newWeekListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List closed weeks, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := app.Reports.List(context.Background())
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatReportList(reports))
			return nil
		},
	}
	return cmd
}
