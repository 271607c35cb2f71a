package middleware

import (
	"fmt"
	"net/http"
	"time"

	"astro-connector/internal/infra/logger"

	"github.com/sirupsen/logrus"
)

func LoggingMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/metrics" || r.URL.Path == "/healthCheck" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrappedWriter := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrappedWriter, r)

			log.Info(fmt.Sprintf("Request: %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr), logrus.Fields{
				"status":      wrappedWriter.statusCode,
				"duration_ms": time.Since(start).Milliseconds(),
			})
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
