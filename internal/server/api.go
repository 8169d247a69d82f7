package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pfrederiksen/cc-courses/internal/links"
	"github.com/pfrederiksen/cc-courses/internal/logger"
	"github.com/pfrederiksen/cc-courses/internal/scraper"
)

const (
	msgTableNotFound = "Courses table not found"
	msgFetchFailed   = "Failed to fetch course data"
)

type scheduleResponse struct {
	Success bool   `json:"success"`
	Data    string `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) setCORS(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", s.opts.AllowedOrigin)
	h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

func (s *Server) handleScheduleOptions(w http.ResponseWriter, r *http.Request) {
	s.setCORS(w)
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	s.setCORS(w)

	// The fragment goes out as fetched; clients resolve links themselves.
	html, err := s.opts.Fetcher.Fetch(r.Context())
	if err != nil {
		status, msg := classifyFetchError(err)
		writeJSON(w, status, scheduleResponse{Success: false, Error: msg})
		return
	}

	writeJSON(w, http.StatusOK, scheduleResponse{Success: true, Data: html})
}

// fetchNormalized returns the table HTML with relative links made absolute.
func (s *Server) fetchNormalized(ctx context.Context) (string, error) {
	html, err := s.opts.Fetcher.Fetch(ctx)
	if err != nil {
		return "", err
	}
	return links.Normalize(html, s.opts.BaseURL), nil
}

// classifyFetchError maps fetch failures to a status and a public message.
func classifyFetchError(err error) (int, string) {
	if errors.Is(err, scraper.ErrTableNotFound) {
		logger.Warn("courses table not found", nil)
		return http.StatusNotFound, msgTableNotFound
	}

	fields := logger.Fields{}
	var remoteErr *scraper.RemoteError
	if errors.As(err, &remoteErr) {
		fields["upstream_status"] = remoteErr.StatusCode
	}
	logger.Error("error scraping site", fields, err)
	return http.StatusInternalServerError, msgFetchFailed
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, logger.GetMetricsSnapshot())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("writing response", nil, err)
	}
}
