package server

import (
	"net/http"
	"time"

	"github.com/pfrederiksen/cc-courses/internal/logger"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogger writes one INFO line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		start := time.Now()
		next.ServeHTTP(rec, r)
		took := time.Since(start)

		logger.RecordTiming("http.request", took)
		logger.IncrCounter("http.requests")
		logger.Info("request", logger.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"latency_ms": took.Milliseconds(),
		})
	})
}
