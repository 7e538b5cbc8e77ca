package timesheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Format identifies the container an upload was read from.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

// maxSheetRows bounds legacy workbook reads.
const maxSheetRows = 100000

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// record is one source row with its 1-based line number.
type record struct {
	fields []string
	line   int
}

// DetectFormat sniffs the container from the leading bytes.
func DetectFormat(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return FormatXLSX
	case bytes.HasPrefix(data, oleMagic):
		return FormatXLS
	default:
		return FormatCSV
	}
}

func readRecords(data []byte) ([]record, Format, error) {
	format := DetectFormat(data)
	var (
		recs []record
		err  error
	)
	switch format {
	case FormatXLSX:
		recs, err = readXLSX(data)
	case FormatXLS:
		recs, err = readXLS(data)
	default:
		recs, err = readCSV(data)
	}
	if err != nil {
		return nil, format, err
	}
	if len(recs) == 0 || isBlank(recs[0].fields) {
		return nil, format, &FormatError{Reason: "missing header row"}
	}
	return recs, format, nil
}

func readCSV(data []byte) ([]record, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &FormatError{Reason: "file is empty"}
	}
	if !utf8.Valid(data) {
		return nil, &FormatError{Reason: "file is not UTF-8 text"}
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffDelimiter(data)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var recs []record
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &FormatError{Reason: "malformed delimited text", Err: err}
		}
		line, _ := r.FieldPos(0)
		recs = append(recs, record{fields: fields, line: line})
	}
	return recs, nil
}

// sniffDelimiter picks the candidate that occurs most often on the header line.
func sniffDelimiter(data []byte) rune {
	header := string(data)
	if i := strings.IndexAny(header, "\r\n"); i >= 0 {
		header = header[:i]
	}
	best, bestCount := ',', 0
	for _, c := range []rune{',', ';', '\t', '|'} {
		if n := strings.Count(header, string(c)); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

func readXLSX(data []byte) ([]record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &FormatError{Reason: "unreadable xlsx workbook", Err: err}
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &FormatError{Reason: "no worksheet found"}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &FormatError{Reason: "reading worksheet " + sheets[0], Err: err}
	}
	return numbered(rows), nil
}

func readXLS(data []byte) ([]record, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, &FormatError{Reason: "unreadable xls workbook", Err: err}
	}
	switch n := wb.NumSheets(); {
	case n == 0:
		return nil, &FormatError{Reason: "no worksheet found"}
	case n > 1:
		return nil, &FormatError{Reason: "multiple worksheets found; upload a workbook with a single sheet"}
	}
	return numbered(wb.ReadAllCells(maxSheetRows)), nil
}

func numbered(rows [][]string) []record {
	recs := make([]record, 0, len(rows))
	for i, row := range rows {
		recs = append(recs, record{fields: row, line: i + 1})
	}
	return recs
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
