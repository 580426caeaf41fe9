package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Logging logs one line per request with a generated request id and, when
// the auth middleware resolved one, the caller's user id.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.NewString()
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			// The auth middleware runs further down the chain and attaches
			// the identity to a derived context this handler never sees, so
			// the log line reads it back through the capture holder.
			r = r.WithContext(CaptureIdentity(r.Context()))

			next.ServeHTTP(rec, r)

			attrs := []any{
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if userID := CapturedIdentity(r.Context()).UserID; userID != "" {
				attrs = append(attrs, "user_id", userID)
			}
			logger.Info("request", attrs...)
		})
	}
}
