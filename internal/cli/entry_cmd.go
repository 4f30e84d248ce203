package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/granthours/internal/cli/formatter"
	"github.com/alexanderramin/granthours/internal/domain"
	"github.com/spf13/cobra"
)

// entryFlags holds the common flag set for commands that build a candidate
// worklog entry.
type entryFlags struct {
	actor    string
	date     string
	minutes  int
	activity string
	student  string
	notes    string
	start    string
}

func (f *entryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.actor, "actor", "", "Staff member ID logging the time")
	cmd.Flags().StringVar(&f.date, "date", "", "Entry date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().IntVar(&f.minutes, "minutes", 0, "Duration in minutes")
	cmd.Flags().StringVar(&f.activity, "activity", "", "Activity code from the catalog")
	cmd.Flags().StringVar(&f.student, "student", "", "Student ID for direct-service activities")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&f.start, "start", "", "Start time (HH:MM) for overlap checking")
}

// build converts the flags into a candidate entry. The date defaults to
// today so field staff can log same-day without typing a date.
func (f *entryFlags) build() (*domain.WorklogEntry, error) {
	e := &domain.WorklogEntry{
		ActorID:      f.actor,
		Minutes:      f.minutes,
		ActivityCode: f.activity,
		StudentID:    f.student,
		Notes:        f.notes,
	}

	if f.date == "" {
		e.Date = time.Now().UTC().Truncate(24 * time.Hour)
	} else {
		d, err := time.Parse(time.DateOnly, f.date)
		if err != nil {
			return nil, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", f.date)
		}
		e.Date = d
	}

	if f.start != "" {
		var h, m int
		if _, err := fmt.Sscanf(f.start, "%d:%d", &h, &m); err != nil || h < 0 || h > 23 || m < 0 || m > 59 {
			return nil, fmt.Errorf("invalid --start %q: expected HH:MM", f.start)
		}
		start := h*60 + m
		e.StartMinute = &start
	}

	return e, nil
}

func newEntryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Log and inspect worklog entries",
	}
	cmd.AddCommand(
		newEntryLogCmd(app),
		newEntryValidateCmd(app),
		newEntryListCmd(app),
	)
	return cmd
}

func newEntryLogCmd(app *App) *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Validate and append a worklog entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := flags.build()
			if err != nil {
				return err
			}

			res, err := app.Entries.Log(context.Background(), e)
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatValidation(res))
			if res.Accepted {
				fmt.Printf("%s %s\n", formatter.Dim("Entry ID:"), e.ID)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newEntryValidateCmd(app *App) *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a candidate entry without persisting it",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := flags.build()
			if err != nil {
				return err
			}

			res, err := app.Entries.Validate(context.Background(), e)
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatValidation(res))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newEntryListCmd(app *App) *cobra.Command {
	var week string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries in the 7-day window ending on a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			weekEnding, err := time.Parse(time.DateOnly, week)
			if err != nil {
				return fmt.Errorf("invalid --week %q: expected YYYY-MM-DD", week)
			}

			entries, err := app.Entries.ListWeek(context.Background(), weekEnding)
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatEntries(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&week, "week", "", "Week-ending date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("week")
	return cmd
}
