package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/alexanderramin/worksummary/internal/session"
	"go.uber.org/zap"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// message is a styled notice on the form page.
type message struct {
	Kind string // success, info, warning or error
	Text string
}

type pageData struct {
	Loaded     bool
	FileName   string
	RowCount   int
	Users      []string
	RowErrors  []string
	Load       *message
	UserName   string
	Date       string
	LocalMode  bool
	Result     *message
	ResultNote string
	LLMEnabled bool
}

// newPageData fills the upload section from the caller's session, if any.
func (s *Server) newPageData(r *http.Request) pageData {
	data := pageData{LLMEnabled: s.opts.LLMEnabled}
	id, ok := existingSessionID(r)
	if !ok {
		return data
	}
	entry, err := s.sessions.Get(id)
	if err != nil {
		return data
	}
	data.withEntry(entry)
	return data
}

func (d *pageData) withEntry(e session.Entry) {
	d.Loaded = true
	d.FileName = e.FileName
	d.RowCount = e.Table.Len()
	d.Users = e.Table.Users()
	d.RowErrors = d.RowErrors[:0]
	for _, err := range e.RowErrors {
		d.RowErrors = append(d.RowErrors, err.Error())
	}
}

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.log.Error("render page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
