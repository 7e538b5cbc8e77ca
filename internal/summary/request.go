package summary

import (
	"strings"
	"text/template"

	"github.com/alexanderramin/worksummary/internal/domain"
	"github.com/alexanderramin/worksummary/internal/llm"
)

// summarySystemPrompt frames the summarization service's role.
const summarySystemPrompt = `You summarize timesheet entries for one person on one day.
Use only the entries you are given. Answer with exactly the requested facts.`

var summaryTemplate = template.Must(template.New("summary").Funcs(template.FuncMap{
	"hours": FormatHours,
}).Parse(`Timesheet entries for {{.UserName}} on {{.Date}}:
{{range .Rows}}- task: {{.Task}}; hours: {{hours .Hours}}
{{else}}(no entries)
{{end}}
Provide only the following details for {{.UserName}} on {{.Date}}:
1. Total hours worked on {{.Date}}.
2. What {{.UserName}} worked on {{.Date}}.
If no information is available, respond with '{{.Fallback}}'
Do not include any additional explanations or details.`))

// SummaryRequest is the bounded instruction sent to the summarization service.
type SummaryRequest struct {
	UserName string
	Date     string
	RowCount int
	System   string
	User     string
}

// GenerateRequest converts the instruction into an LLM call.
func (r SummaryRequest) GenerateRequest() llm.GenerateRequest {
	return llm.GenerateRequest{
		SystemPrompt: r.System,
		UserPrompt:   r.User,
	}
}

// BuildSummaryRequest renders the instruction from the matched rows only.
func BuildSummaryRequest(userName, date string, rows []domain.TimesheetRow) (SummaryRequest, error) {
	var b strings.Builder
	err := summaryTemplate.Execute(&b, struct {
		UserName string
		Date     string
		Rows     []domain.TimesheetRow
		Fallback string
	}{
		UserName: userName,
		Date:     date,
		Rows:     rows,
		Fallback: domain.NoActivityText,
	})
	if err != nil {
		return SummaryRequest{}, err
	}
	return SummaryRequest{
		UserName: userName,
		Date:     date,
		RowCount: len(rows),
		System:   summarySystemPrompt,
		User:     b.String(),
	}, nil
}
