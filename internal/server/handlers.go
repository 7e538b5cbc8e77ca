package server

import (
	"fmt"
	"net/http"

	"github.com/alexanderramin/worksummary/internal/summary"
	"github.com/alexanderramin/worksummary/internal/timesheet"
	"go.uber.org/zap"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, s.newPageData(r))
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)

	entry, res, err := s.loadUpload(w, r, id)
	if err != nil {
		data := s.newPageData(r)
		data.Load = &message{Kind: "error", Text: userMessage(err, queryInput{})}
		s.render(w, statusFor(err), data)
		return
	}

	data := pageData{LLMEnabled: s.opts.LLMEnabled}
	data.withEntry(entry)
	data.Load = &message{Kind: "success", Text: loadedText(res)}
	if !res.Clean() {
		data.Load.Kind = "warning"
	}
	s.render(w, http.StatusOK, data)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	s.limitBody(w, r)
	in := queryInput{
		UserName: r.FormValue("user_name"),
		Date:     r.FormValue("date"),
		Mode:     r.FormValue("mode"),
	}
	data := s.newPageData(r)
	data.UserName = in.UserName
	data.Date = in.Date
	data.LocalMode = in.Mode == string(summary.ModeLocal)

	id, _ := existingSessionID(r)
	res, err := s.runQuery(r.Context(), id, in)
	if err != nil {
		kind := "error"
		if statusFor(err) == http.StatusNotFound {
			kind = "warning"
		}
		if statusFor(err) == http.StatusInternalServerError {
			s.log.Error("query failed", zap.Error(err))
		}
		data.Result = &message{Kind: kind, Text: userMessage(err, in)}
		s.render(w, statusFor(err), data)
		return
	}

	data.Date = res.Query.Date
	data.Result = &message{Kind: "success", Text: res.Text}
	switch res.Source {
	case summary.SourceNoActivity:
		data.Result.Kind = "info"
	case summary.SourceFallback:
		data.ResultNote = "The summarization service is unavailable; showing the summary computed from the timesheet."
	}
	s.render(w, http.StatusOK, data)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if id, ok := existingSessionID(r); ok {
		s.sessions.Delete(id)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func loadedText(res *timesheet.LoadResult) string {
	if res.Clean() {
		return "Timesheet loaded successfully!"
	}
	return fmt.Sprintf("Timesheet loaded with %d rows skipped.", len(res.RowErrors))
}
