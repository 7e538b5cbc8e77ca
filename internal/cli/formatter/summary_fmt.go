package formatter

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexanderramin/worksummary/internal/domain"
	"github.com/alexanderramin/worksummary/internal/summary"
	"github.com/alexanderramin/worksummary/internal/timesheet"
)

const summaryWidth = 72

// FormatSummary renders a query result: the summary text in a box, where
// it came from, and the matched rows.
func FormatSummary(res *summary.Result) string {
	var b strings.Builder

	title := fmt.Sprintf("%s · %s", res.Query.UserName, res.Query.Date)
	b.WriteString(RenderBox(title, Wrap(res.Text, summaryWidth)))
	b.WriteString("\n")
	b.WriteString("  " + SourceBadge(res.Source))
	if res.Degraded && res.Cause != nil {
		b.WriteString("\n  " + Dim(res.Cause.Error()))
	}
	b.WriteString("\n")

	if len(res.Rows) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatRows(res.Rows))
		b.WriteString(Dim(fmt.Sprintf("Total: %s %s", summary.FormatHours(res.Summary.TotalHours),
			hoursUnit(res.Summary.TotalHours))))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatRows renders timesheet rows as a task/hours table.
func FormatRows(rows []domain.TimesheetRow) string {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{r.Task, summary.FormatHours(r.Hours), Dim(strconv.Itoa(r.Line))})
	}
	return RenderTable([]string{"Task", "Hours", "Line"}, data, AlignLeft, AlignRight, AlignRight)
}

// FormatLoadReport renders the outcome of loading a timesheet file: what
// was read, who is in it, and which rows were skipped.
func FormatLoadReport(path string, res *timesheet.LoadResult) string {
	var b strings.Builder

	b.WriteString(Header("Timesheet"))
	b.WriteString("\n")
	n := res.Table.Len()
	fmt.Fprintf(&b, "%s  %s\n", Dim("File:  "), filepath.Base(path))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Format:"), strings.ToUpper(string(res.Format)))
	fmt.Fprintf(&b, "%s  %d %s\n", Dim("Rows:  "), n, Plural(n, "row", "rows"))

	if users := res.Table.Users(); len(users) > 0 {
		b.WriteString("\n")
		data := make([][]string, 0, len(users))
		for _, u := range users {
			days, hours := userTotals(res.Table, u)
			data = append(data, []string{u, strconv.Itoa(days), summary.FormatHours(hours)})
		}
		b.WriteString(RenderTable([]string{"User", "Days", "Hours"}, data, AlignLeft, AlignRight, AlignRight))
	}

	if len(res.RowErrors) > 0 {
		b.WriteString("\n")
		b.WriteString(Warn(fmt.Sprintf("%d %s skipped:", len(res.RowErrors),
			Plural(len(res.RowErrors), "row", "rows"))))
		b.WriteString("\n")
		for _, err := range res.RowErrors {
			b.WriteString("  " + Dim("•") + " " + err.Error() + "\n")
		}
	} else {
		b.WriteString("\n" + StyleGreen.Render("Timesheet loaded successfully!") + "\n")
	}
	return b.String()
}

func userTotals(t *domain.TimesheetTable, user string) (days int, hours float64) {
	days = len(t.Dates(user))
	key := domain.FoldName(user)
	t.Each(func(_ int, r domain.TimesheetRow) {
		if domain.FoldName(r.UserName) == key {
			hours += r.Hours
		}
	})
	return days, hours
}

func hoursUnit(h float64) string {
	if h == 1 {
		return "hour"
	}
	return "hours"
}
