package timesheet

import "strings"

// Required column names, in the order they are reported.
const (
	ColUserName = "User Name"
	ColDate     = "Date"
	ColHours    = "Hours"
	ColTask     = "Task"
)

var RequiredColumns = []string{ColUserName, ColDate, ColHours, ColTask}

// columnIndex maps each required column to its position in the header.
type columnIndex map[string]int

// resolveHeader matches header cells against the required columns,
// ignoring surrounding whitespace and case. Extra columns are ignored;
// when a name repeats, the first occurrence wins.
func resolveHeader(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, dup := pos[key]; !dup {
			pos[key] = i
		}
	}

	idx := make(columnIndex, len(RequiredColumns))
	var missing []string
	for _, col := range RequiredColumns {
		i, ok := pos[normalizeHeader(col)]
		if !ok {
			missing = append(missing, col)
			continue
		}
		idx[col] = i
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}
	return idx, nil
}

func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// cell returns the trimmed value of col in record, or "" for short records.
func (c columnIndex) cell(record []string, col string) string {
	i := c[col]
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
