package summary

import "github.com/alexanderramin/worksummary/internal/domain"

// Filter returns the rows of table logged by q.UserName on q.Date, in
// table order. Names compare case-insensitively; dates compare exactly in
// canonical form. An empty result is a normal outcome.
func Filter(table *domain.TimesheetTable, q domain.Query) []domain.TimesheetRow {
	name := domain.FoldName(q.UserName)
	var matched []domain.TimesheetRow
	table.Each(func(_ int, row domain.TimesheetRow) {
		if row.Date == q.Date && domain.FoldName(row.UserName) == name {
			matched = append(matched, row)
		}
	})
	return matched
}
