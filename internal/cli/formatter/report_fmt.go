package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/granthours/internal/domain"
)

// FormatReport renders a sealed weekly report with its per-actor rows.
func FormatReport(rep *domain.WeeklyReport, prefix string) string {
	var b strings.Builder

	b.WriteString(Header(rep.Name(prefix)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s to %s\n",
		Dim("Window:"),
		rep.WeekStart.Format(time.DateOnly),
		rep.WeekEnd.Format(time.DateOnly)))
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Generated:"), rep.GeneratedAt.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Entries:"), strconv.Itoa(len(rep.IncludedEntryIDs))))
	b.WriteString("\n")

	if len(rep.Rows) == 0 {
		b.WriteString(Dim("No logged time in this window.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(rep.Rows))
	for _, row := range rep.Rows {
		rows = append(rows, []string{
			row.ActorID,
			CategoryBadge(row.Category),
			FormatMinutes(row.TotalMinutes),
			strconv.Itoa(row.EntryCount),
		})
	}
	b.WriteString(RenderTable([]string{"Staff", "Category", "Time", "Entries"}, rows))
	return b.String()
}

// FormatReportList renders a one-line-per-report summary table.
func FormatReportList(reports []*domain.WeeklyReport) string {
	if len(reports) == 0 {
		return Dim("No closed weeks yet.") + "\n"
	}
	rows := make([][]string, 0, len(reports))
	for _, rep := range reports {
		state := StyleGreen.Render("sealed")
		if !rep.Sealed {
			state = StyleYellow.Render("open")
		}
		rows = append(rows, []string{
			rep.WeekEnd.Format(time.DateOnly),
			rep.WeekStart.Format(time.DateOnly),
			state,
			rep.GeneratedAt.Format(time.RFC3339),
		})
	}
	return RenderTable([]string{"Week Ending", "Week Start", "State", "Generated"}, rows)
}

// FormatMinutes converts raw minutes into human-friendly format.
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	h := min / 60
	m := min % 60
	if h > 0 && m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}
