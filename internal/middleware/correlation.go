// Package middleware carries the correlation id that ties HTTP
// requests, queue messages, and log lines together.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type key int

// CorrelationKey is the context key the correlation id is stored under.
const CorrelationKey key = 0

const headerName = "X-Correlation-ID"

// statusRecorder remembers the status code written by the handler so
// the completion log can include it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// CorrelationID accepts an inbound correlation id or mints one, stores
// it in the request context, echoes it in the response header, and logs
// request start and completion.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerName)
		if id == "" {
			id = uuid.New().String()
		}

		ctx := WithCorrelationID(r.Context(), id)
		w.Header().Set(headerName, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		slog.InfoContext(ctx, "request received", "method", r.Method, "path", r.URL.Path)
		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(ctx))

		slog.InfoContext(ctx, "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

// GetCorrelationID returns the id stored in ctx, or "unknown" when the
// work did not originate from a correlated request or message.
func GetCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationKey).(string); ok {
		return id
	}
	return "unknown"
}

// WithCorrelationID is used by queue consumers to restore the id
// carried in a message body.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationKey, id)
}
