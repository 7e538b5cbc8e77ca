package server

import (
	"html/template"
	"net/http"
	"time"

	"github.com/alexanderramin/worksummary/internal/session"
	"github.com/alexanderramin/worksummary/internal/summary"
	"github.com/alexanderramin/worksummary/internal/timesheet"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// multipartOverhead is the room left for multipart framing on top of the
// file size limit.
const multipartOverhead = 64 << 10

// Options configures a Server.
type Options struct {
	Version        string
	MaxUploadBytes int64
	Load           timesheet.LoadOptions
	// LLMEnabled only changes what the form page shows.
	LLMEnabled bool
}

// Server is the worksummary HTTP front end.
type Server struct {
	sessions  *session.Store
	summaries summary.Service
	log       *zap.Logger
	opts      Options
	page      *template.Template
	router    chi.Router
	started   time.Time
}

// New creates a Server backed by the given session store and summary service.
func New(sessions *session.Store, summaries summary.Service, log *zap.Logger, opts Options) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = timesheet.DefaultMaxBytes
	}
	if opts.Load.MaxBytes <= 0 || opts.Load.MaxBytes > opts.MaxUploadBytes {
		opts.Load.MaxBytes = opts.MaxUploadBytes
	}
	s := &Server{
		sessions:  sessions,
		summaries: summaries,
		log:       log.Named("http"),
		opts:      opts,
		page:      pageTemplate,
		started:   time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/upload", s.handleUpload)
	r.Post("/query", s.handleQuery)
	r.Post("/session/reset", s.handleReset)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/load", s.handleAPILoad)
		r.Post("/summary", s.handleAPISummary)
	})

	s.router = r
}

// limitBody caps the request body at the upload limit plus framing.
func (s *Server) limitBody(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes+multipartOverhead)
}
