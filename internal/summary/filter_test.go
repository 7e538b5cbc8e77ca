package summary

import (
	"testing"

	"github.com/alexanderramin/worksummary/internal/domain"
	"github.com/alexanderramin/worksummary/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestFilter_CaseInsensitiveName(t *testing.T) {
	tbl := testutil.SampleTable()
	lower := Filter(tbl, domain.Query{UserName: "Alice", Date: "2024-01-01"})
	upper := Filter(tbl, domain.Query{UserName: "ALICE", Date: "2024-01-01"})
	assert.Len(t, lower, 2)
	if diff := cmp.Diff(lower, upper); diff != "" {
		t.Errorf("case should not matter (-Alice +ALICE):\n%s", diff)
	}
}

func TestFilter_ExactDate(t *testing.T) {
	tbl := testutil.SampleTable()
	assert.Empty(t, Filter(tbl, domain.Query{UserName: "Alice", Date: "2024-01-02"}))
}

func TestFilter_RoundTripPreservesOrder(t *testing.T) {
	tbl := domain.NewTimesheetTable([]domain.TimesheetRow{
		testutil.NewRow("Alice", "2024-01-01", testutil.WithTask("a")),
		testutil.NewRow("Bob", "2024-01-01", testutil.WithTask("b")),
		testutil.NewRow("alice", "2024-01-01", testutil.WithTask("c")),
		testutil.NewRow("Alice", "2024-01-02", testutil.WithTask("d")),
		testutil.NewRow("ALICE", "2024-01-01", testutil.WithTask("e")),
	})

	got := Filter(tbl, domain.Query{UserName: "alice", Date: "2024-01-01"})
	var tasks []string
	for _, r := range got {
		tasks = append(tasks, r.Task)
	}
	assert.Equal(t, []string{"a", "c", "e"}, tasks)
}

func TestFilter_EmptyTable(t *testing.T) {
	assert.Empty(t, Filter(domain.NewTimesheetTable(nil), domain.Query{UserName: "Alice", Date: "2024-01-01"}))
	assert.Empty(t, Filter(nil, domain.Query{UserName: "Alice", Date: "2024-01-01"}))
}

func TestSummarizeLocally(t *testing.T) {
	rows := Filter(testutil.SampleTable(), domain.Query{UserName: "Alice", Date: "2024-01-01"})

	first := SummarizeLocally(rows)
	second := SummarizeLocally(rows)
	assert.Equal(t, domain.WorkSummary{TotalHours: 5, Tasks: []string{"design", "review"}}, first)
	assert.Equal(t, first, second)
}

func TestSummarizeLocally_KeepsDuplicates(t *testing.T) {
	rows := []domain.TimesheetRow{
		testutil.NewRow("Alice", "2024-01-01", testutil.WithTask("review"), testutil.WithHours(1.5)),
		testutil.NewRow("Alice", "2024-01-01", testutil.WithTask("review"), testutil.WithHours(2)),
	}
	s := SummarizeLocally(rows)
	assert.InDelta(t, 3.5, s.TotalHours, 1e-9)
	assert.Equal(t, []string{"review", "review"}, s.Tasks)
}

func TestSummarizeLocally_Empty(t *testing.T) {
	assert.True(t, SummarizeLocally(nil).NoActivity())
}

func TestFormatLocal(t *testing.T) {
	assert.Equal(t, "Alice worked 5 hours on 2024-01-01: design; review.",
		FormatLocal(domain.WorkSummary{TotalHours: 5, Tasks: []string{"design", "review"}}, "Alice", "2024-01-01"))
	assert.Equal(t, "Bob worked 1 hour on 2024-01-01: build.",
		FormatLocal(domain.WorkSummary{TotalHours: 1, Tasks: []string{"build"}}, "Bob", "2024-01-01"))
	assert.Equal(t, domain.NoActivityText, FormatLocal(domain.WorkSummary{}, "Bob", "2024-01-01"))
}
