package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/granthours/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newAdjustCmd(app *App) *cobra.Command {
	var flags entryFlags
	var week string

	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Log a compensating entry against an already-closed week",
		Long: `Sealed weekly reports are never modified. Corrections for a closed
week are logged as adjustment entries that reference the closed week and
fold into later derived views.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			weekEnding, err := time.Parse(time.DateOnly, week)
			if err != nil {
				return fmt.Errorf("invalid --week %q: expected YYYY-MM-DD", week)
			}

			e, err := flags.build()
			if err != nil {
				return err
			}

			res, err := app.Entries.LogAdjustment(context.Background(), e, weekEnding)
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatValidation(res))
			if res.Accepted {
				fmt.Printf("%s %s (adjusts week ending %s)\n",
					formatter.Dim("Entry ID:"), e.ID, weekEnding.Format(time.DateOnly))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&week, "week", "", "Closed week-ending date being corrected (YYYY-MM-DD)")
	cmd.MarkFlagRequired("week")
	return cmd
}
