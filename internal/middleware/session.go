package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gestix/gestix/internal/auth"
	"github.com/gestix/gestix/internal/model"
)

// SessionResolver looks up a session by token hash.
// Returns nil with no error when no session exists (a miss).
type SessionResolver interface {
	GetSession(ctx context.Context, tokenHash string) (*model.Session, error)
}

// SessionConfig holds configuration for the session middleware.
type SessionConfig struct {
	Logger   *slog.Logger
	Sessions SessionResolver
}

// Session returns a middleware guarding protected routes. It extracts the
// bearer token, resolves it to a session, and injects the session into the
// request context. Until the session resolves no handler runs; an absent,
// malformed or expired session yields a uniform 401 so callers learn
// nothing about which check failed.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" || !auth.ValidTokenFormat(token) {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_or_malformed_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			session, err := cfg.Sessions.GetSession(r.Context(), auth.HashToken(token))
			if err != nil {
				cfg.Logger.Error("session lookup error",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			if session == nil || session.Expired(time.Now()) {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "no_session"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			ctx := auth.ContextWithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken extracts the session token from the Authorization header.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// writeAuthError writes a 401 Unauthorized response.
// The same body is used for every auth failure.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"Invalid or missing session"}}`))
}
