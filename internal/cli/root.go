package cli

import (
	"github.com/alexanderramin/granthours/internal/repository"
	"github.com/alexanderramin/granthours/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to the services and repositories used by CLI commands.
type App struct {
	Entries    service.EntryService
	Reports    service.ReportService
	Staff      repository.StaffRepo
	Students   repository.StudentRepo
	Caseloads  repository.CaseloadRepo
	Activities repository.ActivityRepo

	// ReportPrefix names report artifacts in week output.
	ReportPrefix string
	// AutoCloseSchedule is the cron expression driving the autoclose daemon.
	AutoCloseSchedule string
}

// NewRootCmd creates the top-level "granthours" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "granthours",
		Short: "Grant-compliance worklog and weekly reporting",
	}

	root.AddCommand(
		newEntryCmd(app),
		newWeekCmd(app),
		newAdjustCmd(app),
		newCatalogCmd(app),
		newRosterCmd(app),
		newAutoCloseCmd(app),
	)

	return root
}
