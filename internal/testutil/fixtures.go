package testutil

import (
	"context"
	"sync"

	"github.com/alexanderramin/worksummary/internal/domain"
	"github.com/alexanderramin/worksummary/internal/llm"
)

// SampleCSV is the three-row timesheet used across package tests.
const SampleCSV = `User Name,Date,Hours,Task
Alice,2024-01-01,3,design
Alice,2024-01-01,2,review
Bob,2024-01-01,5,build
`

// SampleTable returns SampleCSV as a loaded table.
func SampleTable() *domain.TimesheetTable {
	return domain.NewTimesheetTable([]domain.TimesheetRow{
		{UserName: "Alice", Date: "2024-01-01", Hours: 3, Task: "design", Line: 2},
		{UserName: "Alice", Date: "2024-01-01", Hours: 2, Task: "review", Line: 3},
		{UserName: "Bob", Date: "2024-01-01", Hours: 5, Task: "build", Line: 4},
	})
}

// Row options
type RowOption func(*domain.TimesheetRow)

func WithTask(task string) RowOption {
	return func(r *domain.TimesheetRow) { r.Task = task }
}

func WithHours(h float64) RowOption {
	return func(r *domain.TimesheetRow) { r.Hours = h }
}

// NewRow builds a row for user on date with one hour of "work".
func NewRow(user, date string, opts ...RowOption) domain.TimesheetRow {
	r := domain.TimesheetRow{UserName: user, Date: date, Hours: 1, Task: "work"}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// FakeLLM is a test double for llm.LLMClient that records every request.
type FakeLLM struct {
	mu    sync.Mutex
	Text  string
	Err   error
	Calls []llm.GenerateRequest
}

func (f *FakeLLM) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, req)
	if f.Err != nil {
		return nil, f.Err
	}
	return &llm.GenerateResponse{Text: f.Text, Model: "fake", Provider: "fake", Attempts: 1}, nil
}

func (f *FakeLLM) Available(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Err == nil
}

// CallCount returns the number of Generate calls so far.
func (f *FakeLLM) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}
