package timesheet

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/alexanderramin/worksummary/internal/domain"
)

// DefaultMaxBytes bounds the size of an accepted upload.
const DefaultMaxBytes int64 = 10 << 20

// Policy decides what happens to rows with an unparseable Date or Hours cell.
type Policy int

const (
	// PolicySkip excludes bad rows, keeps the rest and reports every bad row.
	PolicySkip Policy = iota
	// PolicyAbort fails the whole load on the first bad row.
	PolicyAbort
)

func (p Policy) String() string {
	if p == PolicyAbort {
		return "abort"
	}
	return "skip"
}

// ParsePolicy accepts "skip" or "abort".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip":
		return PolicySkip, nil
	case "abort", "strict":
		return PolicyAbort, nil
	default:
		return PolicySkip, fmt.Errorf("unknown row error policy %q (expected skip or abort)", s)
	}
}

// LoadOptions controls a single load.
type LoadOptions struct {
	Policy   Policy
	MaxBytes int64 // <= 0 uses DefaultMaxBytes
}

func (o LoadOptions) maxBytes() int64 {
	if o.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return o.MaxBytes
}

// LoadResult is a loaded table plus the rows that were skipped.
type LoadResult struct {
	Table  *domain.TimesheetTable
	Format Format
	// RowErrors holds *DateParseError and *HoursParseError values in
	// source order. Always empty under PolicyAbort.
	RowErrors []error
}

// Clean reports whether every data row was loaded.
func (r *LoadResult) Clean() bool {
	return len(r.RowErrors) == 0
}

// Load parses data as a timesheet: header check, then per-row date
// canonicalization and hours validation.
func Load(data []byte, opts LoadOptions) (*LoadResult, error) {
	if int64(len(data)) > opts.maxBytes() {
		return nil, &FormatError{Reason: fmt.Sprintf("file exceeds %d bytes", opts.maxBytes())}
	}

	recs, format, err := readRecords(data)
	if err != nil {
		return nil, err
	}

	cols, err := resolveHeader(recs[0].fields)
	if err != nil {
		return nil, err
	}

	var (
		rows    []domain.TimesheetRow
		rowErrs []error
	)
	dataIdx := 0
	for _, rec := range recs[1:] {
		if isBlank(rec.fields) {
			continue
		}
		row, errs := parseRow(cols, rec, dataIdx)
		dataIdx++
		if len(errs) > 0 {
			if opts.Policy == PolicyAbort {
				return nil, errs[0]
			}
			rowErrs = append(rowErrs, errs...)
			continue
		}
		rows = append(rows, row)
	}

	return &LoadResult{
		Table:     domain.NewTimesheetTable(rows),
		Format:    format,
		RowErrors: rowErrs,
	}, nil
}

// LoadReader reads at most opts.MaxBytes+1 bytes from r and loads them.
func LoadReader(r io.Reader, opts LoadOptions) (*LoadResult, error) {
	data, err := io.ReadAll(io.LimitReader(r, opts.maxBytes()+1))
	if err != nil {
		return nil, &FormatError{Reason: "reading upload", Err: err}
	}
	return Load(data, opts)
}

// LoadFile loads the timesheet at path.
func LoadFile(path string, opts LoadOptions) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening timesheet: %w", err)
	}
	defer f.Close()
	return LoadReader(f, opts)
}

func parseRow(cols columnIndex, rec record, idx int) (domain.TimesheetRow, []error) {
	var errs []error

	rawDate := cols.cell(rec.fields, ColDate)
	date, ok := CanonicalDate(rawDate)
	if !ok {
		errs = append(errs, &DateParseError{Row: idx, Line: rec.line, Value: rawDate})
	}

	rawHours := cols.cell(rec.fields, ColHours)
	hours, err := parseHours(rawHours)
	if err != nil {
		errs = append(errs, &HoursParseError{Row: idx, Line: rec.line, Value: rawHours})
	}

	return domain.TimesheetRow{
		UserName: cols.cell(rec.fields, ColUserName),
		Date:     date,
		Hours:    hours,
		Task:     cols.cell(rec.fields, ColTask),
		Line:     rec.line,
	}, errs
}

var errBadHours = errors.New("hours must be a finite non-negative number")

func parseHours(raw string) (float64, error) {
	h, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if h < 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return 0, errBadHours
	}
	return h, nil
}
