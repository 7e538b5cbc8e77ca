package timesheet

import (
	"strings"
	"time"

	"github.com/alexanderramin/worksummary/internal/domain"
)

// dateLayouts are tried in order. Slash and dash numeric forms are read
// month-first.
var dateLayouts = []string{
	domain.DateLayout,
	"2006/01/02",
	"2006.01.02",
	"2006/1/2",
	"2006-1-2",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"1-2-2006",
	"01/02/06",
	"1/2/06",
	"01-02-06",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006 15:04:05",
	"1/2/2006 15:04",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"Mon, 02 Jan 2006",
}

// CanonicalDate parses raw in any supported layout and returns it as YYYY-MM-DD.
func CanonicalDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(domain.DateLayout), true
		}
	}
	return "", false
}
