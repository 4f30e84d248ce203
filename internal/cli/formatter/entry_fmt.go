package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/granthours/internal/domain"
	"github.com/alexanderramin/granthours/internal/service"
)

// FormatValidation renders a validation outcome: a green acceptance line,
// or every collected defect so the submitter can fix them all at once.
func FormatValidation(res *service.ValidationResult) string {
	var b strings.Builder
	if res.Accepted {
		b.WriteString(StyleGreen.Render("✔ Entry accepted") + "\n")
	} else {
		b.WriteString(StyleRed.Render(fmt.Sprintf("✖ Entry rejected (%d problems)", len(res.Errors))) + "\n")
		for _, msg := range res.Errors {
			b.WriteString("  " + StyleRed.Render("•") + " " + msg + "\n")
		}
	}
	for _, msg := range res.Warnings {
		b.WriteString("  " + StyleYellow.Render("⚠") + " " + msg + "\n")
	}
	return b.String()
}

// FormatEntries renders a table of worklog entries.
func FormatEntries(entries []*domain.WorklogEntry) string {
	if len(entries) == 0 {
		return Dim("No entries in this window.") + "\n"
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		flags := ""
		if e.Adjustment {
			flags = StyleYellow.Render("adj")
			if e.AdjustsWeek != nil {
				flags += Dim(" → " + e.AdjustsWeek.Format(time.DateOnly))
			}
		}
		start := ""
		if e.StartMinute != nil {
			start = fmt.Sprintf("%02d:%02d", *e.StartMinute/60, *e.StartMinute%60)
		}
		rows = append(rows, []string{
			e.Date.Format(time.DateOnly),
			e.ActorID,
			e.ActivityCode,
			FormatMinutes(e.Minutes),
			start,
			e.StudentID,
			flags,
		})
	}
	return RenderTable([]string{"Date", "Staff", "Activity", "Time", "Start", "Student", ""}, rows)
}

// FormatCatalog renders the activity catalog.
func FormatCatalog(defs []domain.ActivityDefinition) string {
	if len(defs) == 0 {
		return Dim("Catalog is empty.") + "\n"
	}
	rows := make([][]string, 0, len(defs))
	for _, def := range defs {
		allowable := StyleGreen.Render("yes")
		if !def.Allowable {
			allowable = StyleDim.Render("no")
		}
		rows = append(rows, []string{
			Bold(def.Code),
			def.Label,
			def.FundingCategory,
			allowable,
		})
	}
	return RenderTable([]string{"Code", "Label", "Funding", "Loggable"}, rows)
}

// FormatStaffList renders the staff roster.
func FormatStaffList(staff []*domain.StaffMember) string {
	if len(staff) == 0 {
		return Dim("No staff on record.") + "\n"
	}
	rows := make([][]string, 0, len(staff))
	for _, s := range staff {
		state := StyleGreen.Render("active")
		if !s.Active {
			state = StyleDim.Render("inactive")
		}
		rows = append(rows, []string{s.ID, s.Name, s.Role, s.Building, state})
	}
	return RenderTable([]string{"ID", "Name", "Role", "Building", "State"}, rows)
}
