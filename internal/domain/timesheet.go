package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// DateLayout is the canonical calendar date form used throughout the
// pipeline.
const DateLayout = "2006-01-02"

// TimesheetRow is one logged entry: a person, a day, hours spent and the task.
type TimesheetRow struct {
	UserName string
	Date     string // canonical YYYY-MM-DD
	Hours    float64
	Task     string
	Line     int // 1-based source line, header is line 1
}

// TimesheetTable is the ordered, immutable result of loading one file.
// Multiple rows per (user, date) are expected and all retained.
type TimesheetTable struct {
	rows []TimesheetRow
}

// NewTimesheetTable copies rows into a new table.
func NewTimesheetTable(rows []TimesheetRow) *TimesheetTable {
	cp := make([]TimesheetRow, len(rows))
	copy(cp, rows)
	return &TimesheetTable{rows: cp}
}

// Rows returns a copy of the table rows in insertion order.
func (t *TimesheetTable) Rows() []TimesheetRow {
	if t == nil {
		return nil
	}
	cp := make([]TimesheetRow, len(t.rows))
	copy(cp, t.rows)
	return cp
}

func (t *TimesheetTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Each calls fn for every row in order without copying the table.
func (t *TimesheetTable) Each(fn func(i int, row TimesheetRow)) {
	if t == nil {
		return
	}
	for i, r := range t.rows {
		fn(i, r)
	}
}

// HasUser reports whether any row belongs to name, compared case-insensitively.
func (t *TimesheetTable) HasUser(name string) bool {
	key := FoldName(name)
	if key == "" || t == nil {
		return false
	}
	for _, r := range t.rows {
		if FoldName(r.UserName) == key {
			return true
		}
	}
	return false
}

// Users returns the distinct user names in first-seen order. Names that
// differ only in case collapse to the first spelling seen.
func (t *TimesheetTable) Users() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool)
	var users []string
	for _, r := range t.rows {
		key := FoldName(r.UserName)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		users = append(users, strings.TrimSpace(r.UserName))
	}
	return users
}

// Dates returns the distinct canonical dates logged by name, in first-seen order.
func (t *TimesheetTable) Dates(name string) []string {
	if t == nil {
		return nil
	}
	key := FoldName(name)
	seen := make(map[string]bool)
	var dates []string
	for _, r := range t.rows {
		if FoldName(r.UserName) != key || seen[r.Date] {
			continue
		}
		seen[r.Date] = true
		dates = append(dates, r.Date)
	}
	return dates
}

// FoldName normalizes a user name for comparison: surrounding whitespace is
// dropped and Unicode case folding applied.
func FoldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
