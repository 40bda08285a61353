package middleware

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gestix/gestix/internal/auth"
	"github.com/gestix/gestix/internal/model"
)

// fakeResolver is an in-memory SessionResolver keyed by token hash.
type fakeResolver struct {
	sessions map[string]*model.Session
	err      error
}

func (f *fakeResolver) GetSession(_ context.Context, tokenHash string) (*model.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sessions[tokenHash], nil
}

func sessionMiddleware(resolver *fakeResolver) func(http.Handler) http.Handler {
	return Session(SessionConfig{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Sessions: resolver,
	})
}

const testToken = "st_7a9b3c_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b"

func TestSession_ValidToken(t *testing.T) {
	t.Parallel()

	resolver := &fakeResolver{sessions: map[string]*model.Session{
		auth.HashToken(testToken): {
			TokenHash: auth.HashToken(testToken),
			UserID:    "user-1",
			Email:     "user@example.com",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}}

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = auth.MustSessionFromContext(r.Context()).UserID
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	sessionMiddleware(resolver)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if gotUserID != "user-1" {
		t.Errorf("handler saw user %q, want user-1", gotUserID)
	}
}

func TestSession_Rejections(t *testing.T) {
	t.Parallel()

	expired := &model.Session{
		TokenHash: auth.HashToken(testToken),
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	tests := []struct {
		name     string
		header   string
		resolver *fakeResolver
	}{
		{
			name:     "no header",
			header:   "",
			resolver: &fakeResolver{sessions: map[string]*model.Session{}},
		},
		{
			name:     "malformed token",
			header:   "Bearer not-a-session-token",
			resolver: &fakeResolver{sessions: map[string]*model.Session{}},
		},
		{
			name:     "wrong scheme",
			header:   "Basic dXNlcjpwYXNz",
			resolver: &fakeResolver{sessions: map[string]*model.Session{}},
		},
		{
			name:     "unknown token",
			header:   "Bearer " + testToken,
			resolver: &fakeResolver{sessions: map[string]*model.Session{}},
		},
		{
			name:   "expired session",
			header: "Bearer " + testToken,
			resolver: &fakeResolver{sessions: map[string]*model.Session{
				auth.HashToken(testToken): expired,
			}},
		},
		{
			name:     "resolver error",
			header:   "Bearer " + testToken,
			resolver: &fakeResolver{err: fmt.Errorf("redis down")},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handlerRan := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerRan = true
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			sessionMiddleware(tt.resolver)(next).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if handlerRan {
				t.Error("protected handler must not run without a valid session")
			}
			if !strings.Contains(rec.Body.String(), "UNAUTHORIZED") {
				t.Errorf("body = %s, want the uniform auth error", rec.Body.String())
			}
		})
	}
}

func TestSession_UniformErrorBody(t *testing.T) {
	t.Parallel()

	// Every rejection path writes the same body so callers cannot probe
	// which check failed.
	reject := func(resolver *fakeResolver, header string) string {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		sessionMiddleware(resolver)(next).ServeHTTP(rec, req)
		return rec.Body.String()
	}

	empty := &fakeResolver{sessions: map[string]*model.Session{}}
	missing := reject(empty, "")
	unknown := reject(empty, "Bearer "+testToken)

	if missing != unknown {
		t.Errorf("rejection bodies differ:\n%s\n%s", missing, unknown)
	}
}

func TestSession_InvalidationAfterSignOut(t *testing.T) {
	t.Parallel()

	resolver := &fakeResolver{sessions: map[string]*model.Session{
		auth.HashToken(testToken): {
			TokenHash: auth.HashToken(testToken),
			UserID:    "user-1",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw := sessionMiddleware(resolver)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("pre-signout status = %d, want 200", rec.Code)
	}

	// Sign-out removes the stored session; the same token now misses
	delete(resolver.sessions, auth.HashToken(testToken))

	rec = httptest.NewRecorder()
	mw.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("post-signout status = %d, want 401", rec.Code)
	}
}
