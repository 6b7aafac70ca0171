// Package logger provides a thin wrapper around zerolog.Logger with
// context-aware helpers and an HTTP request-logging middleware.
//
// Logger embeds zerolog.Logger, so the full zerolog API is available.
// Handlers obtain a request-scoped logger via FromContext.
package logger

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

type contextKey struct{}

// NewLogger constructs a *Logger for the given role label (e.g. "server").
// Output is JSON on stdout with a timestamp and the role attached to every
// entry.
func NewLogger(role string) *Logger {
	l := zerolog.New(os.Stdout).With().
		Str("role", role).
		Timestamp().
		Logger()
	return &Logger{l}
}

// WithContext returns a child context carrying the logger.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger stored in ctx, or a default stdout logger
// when none is present (e.g. in tests).
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return l
	}
	return NewLogger("default")
}

// RequestLogger returns middleware that injects a request-scoped logger
// (tagged with the chi request id) into the context and logs one line per
// completed request.
func RequestLogger(l *Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLog := &Logger{l.With().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Logger()}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(reqLog.WithContext(r.Context())))

			reqLog.Info().
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", time.Since(start)).
				Msg("request completed")
		})
	}
}
