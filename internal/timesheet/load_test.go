package timesheet

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/worksummary/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `User Name,Date,Hours,Task
Alice,2024-01-01,3,design
Alice,2024-01-01,2,review
Bob,2024-01-01,5,build
`

func TestLoad_ValidCSV(t *testing.T) {
	res, err := Load([]byte(sampleCSV), LoadOptions{})
	require.NoError(t, err)
	assert.True(t, res.Clean())
	assert.Equal(t, FormatCSV, res.Format)

	want := []domain.TimesheetRow{
		{UserName: "Alice", Date: "2024-01-01", Hours: 3, Task: "design", Line: 2},
		{UserName: "Alice", Date: "2024-01-01", Hours: 2, Task: "review", Line: 3},
		{UserName: "Bob", Date: "2024-01-01", Hours: 5, Task: "build", Line: 4},
	}
	if diff := cmp.Diff(want, res.Table.Rows()); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_NormalizesHeader(t *testing.T) {
	data := "\ufeff user  name ,DATE,hours,Task,Project\nAlice,2024-01-01,3,design,X\n"
	res, err := Load([]byte(data), LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, res.Table.Len())
	assert.Equal(t, "Alice", res.Table.Rows()[0].UserName)
}

func TestLoad_SchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		missing []string
	}{
		{"no task", "User Name,Date,Hours", []string{ColTask}},
		{"only name", "user name", []string{ColDate, ColHours, ColTask}},
		{"renamed columns", "Name,Day,Hours,Task", []string{ColUserName, ColDate}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.header+"\nAlice,2024-01-01,3\n"), LoadOptions{})
			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tt.missing, schemaErr.Missing)
			for _, col := range tt.missing {
				assert.Contains(t, err.Error(), col)
			}
		})
	}
}

func TestLoad_FormatErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte("")},
		{"whitespace only", []byte("  \n\n")},
		{"bare quote", []byte("User Name,Date,Hours,Task\n\"Alice,2024-01-01,3,design\n")},
		{"not utf8", []byte{0xff, 0xfe, 0x00, 0x41, 0x00}},
		{"blank header", []byte(",,,\nAlice,2024-01-01,3,design\n")},
		{"corrupt xlsx", append([]byte("PK\x03\x04"), []byte("garbage")...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.data, LoadOptions{})
			var formatErr *FormatError
			assert.ErrorAs(t, err, &formatErr)
		})
	}
}

func TestLoad_TooLarge(t *testing.T) {
	_, err := Load([]byte(sampleCSV), LoadOptions{MaxBytes: 10})
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Contains(t, formatErr.Reason, "exceeds")
}

func TestLoad_BadDateSkipKeepsOtherRows(t *testing.T) {
	data := "User Name,Date,Hours,Task\n" +
		"Alice,2024-01-01,3,design\n" +
		"Alice,someday,2,review\n" +
		"Bob,2024-01-01,5,build\n"
	res, err := Load([]byte(data), LoadOptions{Policy: PolicySkip})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Table.Len())
	require.Len(t, res.RowErrors, 1)
	var dateErr *DateParseError
	require.ErrorAs(t, res.RowErrors[0], &dateErr)
	assert.Equal(t, 1, dateErr.Row)
	assert.Equal(t, 3, dateErr.Line)
	assert.Equal(t, "someday", dateErr.Value)
}

func TestLoad_BadDateAbort(t *testing.T) {
	data := "User Name,Date,Hours,Task\nAlice,2024-01-01,3,design\nAlice,13/45/2024,2,review\n"
	_, err := Load([]byte(data), LoadOptions{Policy: PolicyAbort})
	var dateErr *DateParseError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, 1, dateErr.Row)
	assert.Equal(t, "13/45/2024", dateErr.Value)
}

func TestLoad_BadHours(t *testing.T) {
	data := "User Name,Date,Hours,Task\n" +
		"Alice,2024-01-01,-1,design\n" +
		"Alice,2024-01-01,lots,review\n" +
		"Alice,2024-01-01,,idle\n" +
		"Alice,2024-01-01,1.5,ok\n"
	res, err := Load([]byte(data), LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Table.Len())
	require.Len(t, res.RowErrors, 3)
	for _, e := range res.RowErrors {
		var hoursErr *HoursParseError
		assert.ErrorAs(t, e, &hoursErr)
	}
}

func TestLoad_SkipsBlankLines(t *testing.T) {
	data := "User Name,Date,Hours,Task\n\nAlice,2024-01-01,3,design\n,,,\nBob,2024-01-01,5,build\n"
	res, err := Load([]byte(data), LoadOptions{})
	require.NoError(t, err)
	assert.True(t, res.Clean())
	rows := res.Table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, 3, rows[0].Line)
	assert.Equal(t, 5, rows[1].Line)
}

func TestLoad_SemicolonDelimited(t *testing.T) {
	data := "User Name;Date;Hours;Task\nAlice;2024-01-01;3;design, docs\n"
	res, err := Load([]byte(data), LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, res.Table.Len())
	assert.Equal(t, "design, docs", res.Table.Rows()[0].Task)
}

func TestLoad_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"User Name", "Date", "Hours", "Task"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Alice", "2024-01-01", 3, "design"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"Bob", "01/01/2024", 5.5, "build"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := Load(buf.Bytes(), LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, res.Format)

	want := []domain.TimesheetRow{
		{UserName: "Alice", Date: "2024-01-01", Hours: 3, Task: "design", Line: 2},
		{UserName: "Bob", Date: "2024-01-01", Hours: 5.5, Task: "build", Line: 3},
	}
	if diff := cmp.Diff(want, res.Table.Rows()); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadReader_RejectsOversizedStream(t *testing.T) {
	big := strings.NewReader(sampleCSV + strings.Repeat("Alice,2024-01-01,1,x\n", 100))
	_, err := LoadReader(big, LoadOptions{MaxBytes: int64(len(sampleCSV))})
	var formatErr *FormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timesheet.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))

	res, err := LoadFile(path, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Table.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"), LoadOptions{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("ABORT")
	require.NoError(t, err)
	assert.Equal(t, PolicyAbort, p)

	p, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicySkip, p)

	_, err = ParsePolicy("maybe")
	assert.Error(t, err)
}

func TestCanonicalDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-01-01", "2024-01-01", true},
		{" 2024-1-9 ", "2024-01-09", true},
		{"12/31/2023", "2023-12-31", true},
		{"01-02-24", "2024-01-02", true},
		{"January 5, 2024", "2024-01-05", true},
		{"2024-01-01T08:00:00Z", "2024-01-01", true},
		{"2024-02-30", "", false},
		{"yesterday", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := CanonicalDate(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
