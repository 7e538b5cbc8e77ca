package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/worksummary/internal/domain"
	"github.com/alexanderramin/worksummary/internal/llm"
	"go.uber.org/zap"
)

var (
	// ErrUserNotFound means no row in the table carries the queried name.
	ErrUserNotFound = errors.New("user not found in timesheet")

	// ErrSummarizationUnavailable means the external call failed after retries
	// or returned nothing displayable.
	ErrSummarizationUnavailable = errors.New("summarization service unavailable")

	ErrInvalidMode = errors.New("invalid summary mode")
)

// Mode selects how a summary is produced.
type Mode string

const (
	// ModeAuto delegates to the summarization service when one is configured.
	ModeAuto Mode = "auto"
	// ModeLocal always computes the deterministic summary.
	ModeLocal Mode = "local"
)

// ParseMode accepts "", "auto" or "local".
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeLocal:
		return ModeLocal, nil
	default:
		return ModeAuto, fmt.Errorf("%w %q (expected auto or local)", ErrInvalidMode, s)
	}
}

// Source records where Result.Text came from.
type Source string

const (
	SourceLLM        Source = "llm"
	SourceLocal      Source = "local"
	SourceFallback   Source = "local-fallback"
	SourceNoActivity Source = "no-activity"
)

// Result is the answer to one query.
type Result struct {
	Query   domain.Query
	Rows    []domain.TimesheetRow
	Summary domain.WorkSummary
	Text    string
	Source  Source
	// Degraded is set when the summarization service failed and Text is the
	// local summary. Cause holds the ErrSummarizationUnavailable chain.
	Degraded bool
	Cause    error
}

// Service answers queries against a loaded timesheet.
type Service interface {
	Summarize(ctx context.Context, table *domain.TimesheetTable, q domain.Query, mode Mode) (*Result, error)

	// Reachable reports whether the summarization service answers right now.
	// Always false without a client.
	Reachable(ctx context.Context) bool
}

type summaryService struct {
	client llm.LLMClient
	log    *zap.Logger
}

// NewService creates a Service. A nil client limits it to local summaries.
func NewService(client llm.LLMClient, log *zap.Logger) Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &summaryService{client: client, log: log.Named("summary")}
}

func (s *summaryService) Summarize(ctx context.Context, table *domain.TimesheetTable, q domain.Query, mode Mode) (*Result, error) {
	if !table.HasUser(q.UserName) {
		return nil, fmt.Errorf("%w: %q", ErrUserNotFound, q.UserName)
	}

	rows := Filter(table, q)
	local := SummarizeLocally(rows)
	res := &Result{Query: q, Rows: rows, Summary: local}

	if local.NoActivity() {
		res.Text = domain.NoActivityText
		res.Source = SourceNoActivity
		return res, nil
	}

	if mode == ModeLocal || s.client == nil {
		res.Text = FormatLocal(local, q.UserName, q.Date)
		res.Source = SourceLocal
		return res, nil
	}

	text, err := s.delegate(ctx, q, rows)
	if err != nil {
		s.log.Warn("falling back to local summary",
			zap.String("user", q.UserName),
			zap.String("date", q.Date),
			zap.Error(err))
		res.Text = FormatLocal(local, q.UserName, q.Date)
		res.Source = SourceFallback
		res.Degraded = true
		res.Cause = err
		return res, nil
	}

	res.Text = text
	res.Source = SourceLLM
	return res, nil
}

func (s *summaryService) Reachable(ctx context.Context) bool {
	if s.client == nil {
		return false
	}
	return s.client.Available(ctx)
}

func (s *summaryService) delegate(ctx context.Context, q domain.Query, rows []domain.TimesheetRow) (string, error) {
	req, err := BuildSummaryRequest(q.UserName, q.Date, rows)
	if err != nil {
		return "", fmt.Errorf("%w: building request: %w", ErrSummarizationUnavailable, err)
	}

	resp, err := s.client.Generate(ctx, req.GenerateRequest())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSummarizationUnavailable, err)
	}

	text := InterpretSummaryResponse(resp.Text)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty response from %s", ErrSummarizationUnavailable, resp.Model)
	}
	return text, nil
}
