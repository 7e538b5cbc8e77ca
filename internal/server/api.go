package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/alexanderramin/worksummary/internal/timesheet"
)

type loadReport struct {
	FileName  string   `json:"file_name"`
	Format    string   `json:"format"`
	Rows      int      `json:"rows"`
	Users     []string `json:"users"`
	RowErrors []string `json:"row_errors"`
}

type summaryReport struct {
	UserName   string   `json:"user_name"`
	Date       string   `json:"date"`
	Text       string   `json:"text"`
	Source     string   `json:"source"`
	Degraded   bool     `json:"degraded"`
	TotalHours float64  `json:"total_hours"`
	Tasks      []string `json:"tasks"`
	Rows       int      `json:"rows"`
}

type errorReport struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}

// handleHealth reports llm from configuration and llm_reachable from a live
// check of the summarization service.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"version":       s.opts.Version,
		"uptime":        time.Since(s.started).Seconds(),
		"sessions":      s.sessions.Len(),
		"llm":           s.opts.LLMEnabled,
		"llm_reachable": s.opts.LLMEnabled && s.summaries.Reachable(r.Context()),
	})
}

func (s *Server) handleAPILoad(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)

	entry, res, err := s.loadUpload(w, r, id)
	if err != nil {
		writeError(w, err, queryInput{})
		return
	}

	report := loadReport{
		FileName:  entry.FileName,
		Format:    string(res.Format),
		Rows:      entry.Table.Len(),
		Users:     entry.Table.Users(),
		RowErrors: []string{},
	}
	for _, e := range res.RowErrors {
		report.RowErrors = append(report.RowErrors, e.Error())
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	s.limitBody(w, r)
	var in queryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorReport{Error: "invalid json"})
		return
	}

	id, _ := existingSessionID(r)
	res, err := s.runQuery(r.Context(), id, in)
	if err != nil {
		writeError(w, err, in)
		return
	}

	tasks := res.Summary.Tasks
	if tasks == nil {
		tasks = []string{}
	}
	writeJSON(w, http.StatusOK, summaryReport{
		UserName:   res.Query.UserName,
		Date:       res.Query.Date,
		Text:       res.Text,
		Source:     string(res.Source),
		Degraded:   res.Degraded,
		TotalHours: res.Summary.TotalHours,
		Tasks:      tasks,
		Rows:       len(res.Rows),
	})
}

func writeError(w http.ResponseWriter, err error, in queryInput) {
	report := errorReport{Error: userMessage(err, in)}
	var schemaErr *timesheet.SchemaError
	if errors.As(err, &schemaErr) {
		report.Missing = schemaErr.Missing
	}
	writeJSON(w, statusFor(err), report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
