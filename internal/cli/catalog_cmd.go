package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/granthours/internal/classifier"
	"github.com/alexanderramin/granthours/internal/cli/formatter"
	"github.com/alexanderramin/granthours/internal/domain"
	"github.com/spf13/cobra"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the activity catalog",
	}
	cmd.AddCommand(
		newCatalogListCmd(app),
		newCatalogAddCmd(app),
	)
	return cmd
}

func newCatalogListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := app.Activities.List(context.Background())
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatCatalog(defs))
			return nil
		},
	}
	return cmd
}

func newCatalogAddCmd(app *App) *cobra.Command {
	var label, funding string
	var notAllowable bool

	cmd := &cobra.Command{
		Use:   "add <code>",
		Short: "Add or update a catalog activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def := &domain.ActivityDefinition{
				Code:            args[0],
				Label:           label,
				Allowable:       !notAllowable,
				FundingCategory: string(classifier.NormalizeCategory(funding)),
			}

			if err := app.Activities.Upsert(context.Background(), def); err != nil {
				return err
			}

			fmt.Printf("Catalog activity %s saved.\n", formatter.Bold(def.Code))
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Human-readable activity label")
	cmd.Flags().StringVar(&funding, "funding", "IN_GRANT", "Funding category (IN_GRANT, OUT_OF_GRANT, or a synonym)")
	cmd.Flags().BoolVar(&notAllowable, "not-allowable", false, "Mark the activity as not loggable")
	return cmd
}
