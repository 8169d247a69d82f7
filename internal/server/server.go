package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/pfrederiksen/cc-courses/internal/frame"
	"github.com/pfrederiksen/cc-courses/internal/logger"
	"github.com/pfrederiksen/cc-courses/internal/schedule"
	"github.com/pfrederiksen/cc-courses/internal/scraper"
	"github.com/pfrederiksen/cc-courses/internal/tokenstore"
)

//go:embed templates/*.html
var templatesFS embed.FS

const shutdownTimeout = 10 * time.Second

// Notifier sends one frame notification.
type Notifier interface {
	Send(ctx context.Context, fid int64, n frame.Notification) (frame.SendState, error)
}

// Options wires the server's dependencies.
type Options struct {
	Addr          string
	AllowedOrigin string
	BaseURL       string // catalog base for relative links
	Fetcher       scraper.TableFetcher
	Verifier      *frame.Verifier
	Store         tokenstore.Store
	Notifier      Notifier
}

// Server is the HTTP front end.
type Server struct {
	opts Options
	mux  *http.ServeMux
	tmpl *template.Template

	mu       sync.Mutex
	lastHTML string
	lastRows schedule.RowSet
}

// New parses the templates and registers the routes.
func New(opts Options) (*Server, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("a table fetcher is required")
	}
	if opts.Verifier == nil {
		opts.Verifier = frame.NewVerifier(frame.NewHubKeyChecker(""))
	}
	if opts.Store == nil {
		opts.Store = tokenstore.NewMemoryStore()
	}
	if opts.AllowedOrigin == "" {
		opts.AllowedOrigin = "http://localhost:3000"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = scraper.CatalogBaseURL
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	s := &Server{
		opts: opts,
		mux:  http.NewServeMux(),
		tmpl: tmpl,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /api/course-schedule", s.handleSchedule)
	s.mux.HandleFunc("OPTIONS /api/course-schedule", s.handleScheduleOptions)
	s.mux.HandleFunc("POST /api/webhook", s.handleWebhook)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /debug/metrics", s.handleMetrics)
}

// Handler returns the routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return requestLogger(s.mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      scraper.Timeout + 15*time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("server listening", logger.Fields{"addr": s.opts.Addr})

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("shutting down the server", nil)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	logger.Info("server stopped", nil)
	return nil
}

// rows fetches the table and parses it, reusing the last parse when the
// markup has not changed.
func (s *Server) rows(ctx context.Context) (schedule.RowSet, error) {
	html, err := s.fetchNormalized(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if html == s.lastHTML && s.lastRows != nil {
		return s.lastRows, nil
	}

	rows, err := schedule.Build(html)
	if err != nil {
		return nil, err
	}
	s.lastHTML, s.lastRows = html, rows
	logger.SetGauge("schedule.rows", float64(rows.DataLen()))
	return rows, nil
}
