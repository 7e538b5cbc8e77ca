package summary

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/worksummary/internal/domain"
)

// SummarizeLocally totals hours and lists tasks in row order, keeping
// duplicates. No rows yields the no-activity summary.
func SummarizeLocally(rows []domain.TimesheetRow) domain.WorkSummary {
	if len(rows) == 0 {
		return domain.WorkSummary{}
	}
	s := domain.WorkSummary{Tasks: make([]string, 0, len(rows))}
	for _, r := range rows {
		s.TotalHours += r.Hours
		s.Tasks = append(s.Tasks, r.Task)
	}
	return s
}

// FormatLocal renders a deterministic summary as display text.
func FormatLocal(s domain.WorkSummary, userName, date string) string {
	if s.NoActivity() {
		return domain.NoActivityText
	}
	unit := "hours"
	if s.TotalHours == 1 {
		unit = "hour"
	}
	return fmt.Sprintf("%s worked %s %s on %s: %s.",
		userName, FormatHours(s.TotalHours), unit, date, strings.Join(s.Tasks, "; "))
}

// FormatHours prints hours without trailing zeros: 5, 2.5, 0.25.
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
