package timesheet

import (
	"fmt"
	"strings"
)

// FormatError reports input that cannot be read as a table with a header row.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unreadable timesheet: %s: %v", e.Reason, e.Err)
	}
	return "unreadable timesheet: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }

// SchemaError lists required columns absent from the header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("timesheet is missing required columns: %s (required: %s)",
		strings.Join(e.Missing, ", "), strings.Join(RequiredColumns, ", "))
}

// DateParseError flags a row whose Date cell is not a recognizable calendar date.
type DateParseError struct {
	Row   int // 0-based data row index
	Line  int // 1-based source line
	Value string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("row %d (line %d): cannot parse date %q", e.Row, e.Line, e.Value)
}

// HoursParseError flags a row whose Hours cell is not a non-negative number.
type HoursParseError struct {
	Row   int
	Line  int
	Value string
}

func (e *HoursParseError) Error() string {
	return fmt.Sprintf("row %d (line %d): hours must be a non-negative number, got %q", e.Row, e.Line, e.Value)
}
