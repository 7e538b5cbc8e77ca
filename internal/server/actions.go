package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/alexanderramin/worksummary/internal/domain"
	"github.com/alexanderramin/worksummary/internal/session"
	"github.com/alexanderramin/worksummary/internal/summary"
	"github.com/alexanderramin/worksummary/internal/timesheet"
	"go.uber.org/zap"
)

var (
	errNoFile       = errors.New("please upload a timesheet file")
	errMissingInput = errors.New("please provide both user name and date to proceed")
	errTooLarge     = errors.New("upload too large")
)

// queryInput is the raw form or JSON input of a summary query.
type queryInput struct {
	UserName string `json:"user_name"`
	Date     string `json:"date"`
	Mode     string `json:"mode"`
}

// loadUpload reads the multipart "file" field and replaces the session's
// table with it. A failed upload also discards the previous table, so
// queries cannot answer from a file the user has replaced.
func (s *Server) loadUpload(w http.ResponseWriter, r *http.Request, id string) (session.Entry, *timesheet.LoadResult, error) {
	name, res, err := s.readUpload(w, r)
	if err != nil {
		s.sessions.Delete(id)
		s.log.Info("upload rejected", zap.String("file", name), zap.Error(err))
		return session.Entry{}, nil, err
	}

	entry := s.sessions.Put(id, name, res.Table, res.RowErrors)
	s.log.Info("timesheet loaded",
		zap.String("file", name),
		zap.String("format", string(res.Format)),
		zap.Int("rows", res.Table.Len()),
		zap.Int("skipped", len(res.RowErrors)))
	return entry, res, nil
}

func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, *timesheet.LoadResult, error) {
	s.limitBody(w, r)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			return "", nil, fmt.Errorf("%w: limit is %d bytes", errTooLarge, s.opts.MaxUploadBytes)
		}
		return "", nil, errNoFile
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, errNoFile
	}
	defer file.Close()

	res, err := timesheet.LoadReader(file, s.opts.Load)
	return header.Filename, res, err
}

// runQuery validates in and summarizes against the session's table.
func (s *Server) runQuery(ctx context.Context, id string, in queryInput) (*summary.Result, error) {
	entry, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.UserName)
	rawDate := strings.TrimSpace(in.Date)
	if name == "" || rawDate == "" {
		return nil, errMissingInput
	}
	date, ok := timesheet.CanonicalDate(rawDate)
	if !ok {
		date = rawDate
	}
	q, err := domain.NewQuery(name, date)
	if err != nil {
		return nil, err
	}
	mode, err := summary.ParseMode(in.Mode)
	if err != nil {
		return nil, err
	}

	return s.summaries.Summarize(ctx, entry.Table, q, mode)
}

// statusFor maps load and query errors to HTTP status codes.
func statusFor(err error) int {
	var (
		formatErr *timesheet.FormatError
		schemaErr *timesheet.SchemaError
		dateErr   *timesheet.DateParseError
		hoursErr  *timesheet.HoursParseError
	)
	switch {
	case errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, session.ErrNoSession):
		return http.StatusConflict
	case errors.Is(err, summary.ErrUserNotFound):
		return http.StatusNotFound
	case errors.As(err, &formatErr), errors.As(err, &schemaErr),
		errors.As(err, &dateErr), errors.As(err, &hoursErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errNoFile), errors.Is(err, errMissingInput),
		errors.Is(err, domain.ErrInvalidDate), errors.Is(err, domain.ErrEmptyUserName),
		errors.Is(err, summary.ErrInvalidMode):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// userMessage renders err as the text shown to the person using the form.
func userMessage(err error, in queryInput) string {
	switch {
	case errors.Is(err, session.ErrNoSession):
		return "Please upload a timesheet file."
	case errors.Is(err, summary.ErrUserNotFound):
		return fmt.Sprintf("User name '%s' does not exist in the provided data.", strings.TrimSpace(in.UserName))
	case errors.Is(err, errNoFile), errors.Is(err, errMissingInput):
		msg := err.Error()
		return strings.ToUpper(msg[:1]) + msg[1:] + "."
	case statusFor(err) == http.StatusInternalServerError:
		return "Something went wrong while processing your request."
	default:
		return err.Error()
	}
}
