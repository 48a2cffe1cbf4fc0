// Package middleware validates JSON request bodies at HTTP boundaries.
package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/reoring/tjv"
	"github.com/reoring/tjv/internal/logging"
)

// DefaultMaxBody bounds the request body read by Validate.
const DefaultMaxBody = 1 << 20

// ctxKeyOutcome is the context key for the validated outcome.
type ctxKeyOutcome struct{}

// ContextWithOutcome attaches a validated outcome to the context.
func ContextWithOutcome(ctx context.Context, out any) context.Context {
	return context.WithValue(ctx, ctxKeyOutcome{}, out)
}

// OutcomeFromContext retrieves the outcome stored by Validate.
func OutcomeFromContext(ctx context.Context) (any, bool) {
	v := ctx.Value(ctxKeyOutcome{})
	return v, v != nil
}

// ErrorPayload shapes diagnostics for JSON responses.
func ErrorPayload(message string, details []tjv.Diagnostic) map[string]any {
	if details == nil {
		details = []tjv.Diagnostic{}
	}
	return map[string]any{"message": message, "errors": details}
}

type config struct {
	maxBody int64
	log     *slog.Logger
}

// Option configures Validate.
type Option func(*config)

// WithMaxBody bounds the body size; larger bodies get 413.
func WithMaxBody(n int64) Option {
	return func(c *config) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// WithLogger logs rejected requests at Info.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.log = l }
}

// Validate checks the JSON body of every request against s. Valid requests
// reach next with the outcome in their context and the body restored;
// invalid ones get 422 with ErrorPayload.
func Validate(s *tjv.Schema, opts ...Option) func(http.Handler) http.Handler {
	cfg := config{maxBody: DefaultMaxBody}
	for _, o := range opts {
		o(&cfg)
	}
	log := logging.OrDiscard(cfg.log)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, cfg.maxBody+1))
			if err != nil {
				writeJSON(w, http.StatusBadRequest, ErrorPayload(err.Error(), nil))
				return
			}
			if int64(len(body)) > cfg.maxBody {
				writeJSON(w, http.StatusRequestEntityTooLarge, ErrorPayload(http.StatusText(http.StatusRequestEntityTooLarge), nil))
				return
			}
			out, err := s.ValidateJSON(r.Context(), body)
			if err != nil {
				ve, ok := tjv.AsValidationError(err)
				if !ok {
					writeJSON(w, http.StatusInternalServerError, ErrorPayload(err.Error(), nil))
					return
				}
				log.InfoContext(r.Context(), "request rejected",
					slog.String("method", r.Method),
					slog.String("url", r.URL.Path),
					slog.Int("diagnostics", len(ve.Data)))
				writeJSON(w, http.StatusUnprocessableEntity, ErrorPayload(ve.Message, ve.Data))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r.WithContext(ContextWithOutcome(r.Context(), out)))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
