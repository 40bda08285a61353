package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gestix/gestix/internal/auth"
	"github.com/gestix/gestix/internal/handler/dto"
	"github.com/gestix/gestix/internal/model"
	"github.com/gestix/gestix/internal/repository"
)

// fakeUserStore is an in-memory UserStore keyed by lowercased email.
type fakeUserStore struct {
	byEmail map[string]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*model.User)}
}

func (s *fakeUserStore) Create(_ context.Context, u *model.User) error {
	key := strings.ToLower(u.Email)
	if _, exists := s.byEmail[key]; exists {
		return repository.ErrEmailExists
	}
	copied := *u
	s.byEmail[key] = &copied
	return nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

// fakeSessionStore is an in-memory SessionStore keyed by token hash.
type fakeSessionStore struct {
	sessions  map[string]*model.Session
	putErr    error
	deleteErr error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*model.Session)}
}

func (s *fakeSessionStore) PutSession(_ context.Context, sess *model.Session) error {
	if s.putErr != nil {
		return s.putErr
	}
	copied := *sess
	s.sessions[sess.TokenHash] = &copied
	return nil
}

func (s *fakeSessionStore) DeleteSession(_ context.Context, tokenHash string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.sessions, tokenHash)
	return nil
}

func (s *fakeSessionStore) RotateSession(_ context.Context, oldHash string, sess *model.Session) error {
	if err := s.PutSession(context.Background(), sess); err != nil {
		return err
	}
	delete(s.sessions, oldHash)
	return nil
}

func newAuthHandlerForTest(users *fakeUserStore, sessions *fakeSessionStore) *AuthHandler {
	return NewAuthHandler(users, sessions, time.Hour, testLogger(), nil)
}

func signupUser(t *testing.T, h *AuthHandler, email, password string) dto.UserResponse {
	t.Helper()

	body, _ := json.Marshal(dto.SignupRequest{Email: email, Password: password})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Signup(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d; body: %s", rec.Code, rec.Body.String())
	}

	var user dto.UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode signup response: %v", err)
	}
	return user
}

func TestSignup_CreatesUser(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	h := newAuthHandlerForTest(users, newFakeSessionStore())

	user := signupUser(t, h, "New.User@Example.COM", "hunter2hunter2")

	if user.Email != "new.user@example.com" {
		t.Errorf("Email = %s, want lowercased/trimmed", user.Email)
	}
	if user.ID == "" {
		t.Error("user should have a server-assigned ID")
	}
	if _, ok := users.byEmail["new.user@example.com"]; !ok {
		t.Error("user should be stored under the normalized email")
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	h := newAuthHandlerForTest(users, newFakeSessionStore())

	signupUser(t, h, "dup@example.com", "hunter2hunter2")

	body, _ := json.Marshal(dto.SignupRequest{Email: "dup@example.com", Password: "hunter2hunter2"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Signup(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	var errResp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Code != "EMAIL_TAKEN" {
		t.Errorf("Code = %s, want EMAIL_TAKEN", errResp.Code)
	}
}

func TestSignup_Validation(t *testing.T) {
	t.Parallel()

	h := newAuthHandlerForTest(newFakeUserStore(), newFakeSessionStore())

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "longenoughpassword"},
		{"no at sign", "not-an-email", "longenoughpassword"},
		{"short password", "ok@example.com", "short"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			body, _ := json.Marshal(dto.SignupRequest{Email: tt.email, Password: tt.password})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			h.Signup(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	h := newAuthHandlerForTest(users, sessions)

	signupUser(t, h, "login@example.com", "correct-password")

	body, _ := json.Marshal(dto.LoginRequest{Email: "login@example.com", Password: "correct-password"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}

	var resp dto.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !auth.ValidTokenFormat(resp.Token) {
		t.Errorf("token %q should match the session token format", resp.Token)
	}
	if resp.User.Email != "login@example.com" {
		t.Errorf("User.Email = %s", resp.User.Email)
	}
	if !resp.ExpiresAt.After(time.Now()) {
		t.Error("session expiry should be in the future")
	}

	// The stored session is keyed by the token's hash, never the plaintext
	if _, ok := sessions.sessions[resp.Token]; ok {
		t.Error("plaintext token must not be a session key")
	}
	if _, ok := sessions.sessions[auth.HashToken(resp.Token)]; !ok {
		t.Error("session should be stored under the token hash")
	}
}

func TestLogin_UniformFailure(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	h := newAuthHandlerForTest(users, newFakeSessionStore())

	signupUser(t, h, "present@example.com", "correct-password")

	// Unknown account and wrong password must be indistinguishable
	attempts := []dto.LoginRequest{
		{Email: "absent@example.com", Password: "whatever-password"},
		{Email: "present@example.com", Password: "wrong-password"},
	}

	var bodies []string
	for _, attempt := range attempts {
		body, _ := json.Marshal(attempt)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status for %s = %d, want 401", attempt.Email, rec.Code)
		}
		bodies = append(bodies, rec.Body.String())
	}

	if bodies[0] != bodies[1] {
		t.Errorf("failure responses differ:\n%s\n%s", bodies[0], bodies[1])
	}
}

func TestLogin_FailureTimingFloor(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	h := newAuthHandlerForTest(users, newFakeSessionStore())

	signupUser(t, h, "present@example.com", "correct-password")

	// The unknown-email path skips password verification entirely; it
	// must still take at least the floor or timing reveals the account.
	attempts := []dto.LoginRequest{
		{Email: "absent@example.com", Password: "whatever-password"},
		{Email: "present@example.com", Password: "wrong-password"},
	}

	for _, attempt := range attempts {
		body, _ := json.Marshal(attempt)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		start := time.Now()
		h.Login(rec, req)
		elapsed := time.Since(start)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status for %s = %d, want 401", attempt.Email, rec.Code)
		}
		if elapsed < minLoginDuration {
			t.Errorf("failed login for %s took %v, want at least %v", attempt.Email, elapsed, minLoginDuration)
		}
	}
}

func TestLogout_RemovesSession(t *testing.T) {
	t.Parallel()

	sessions := newFakeSessionStore()
	h := newAuthHandlerForTest(newFakeUserStore(), sessions)

	sess := &model.Session{TokenHash: "hash-1", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}
	sessions.sessions["hash-1"] = sess

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req = req.WithContext(auth.ContextWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if _, ok := sessions.sessions["hash-1"]; ok {
		t.Error("session should be removed on logout")
	}
}

func TestLogout_FailureKeepsSession(t *testing.T) {
	t.Parallel()

	sessions := newFakeSessionStore()
	sessions.deleteErr = fmt.Errorf("redis down")
	h := newAuthHandlerForTest(newFakeUserStore(), sessions)

	sess := &model.Session{TokenHash: "hash-1", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}
	sessions.sessions["hash-1"] = sess

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req = req.WithContext(auth.ContextWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var errResp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Code != "SIGN_OUT_FAILED" {
		t.Errorf("Code = %s, want SIGN_OUT_FAILED", errResp.Code)
	}
	if _, ok := sessions.sessions["hash-1"]; !ok {
		t.Error("failed sign-out must leave the session intact so the caller can retry")
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	t.Parallel()

	sessions := newFakeSessionStore()
	h := newAuthHandlerForTest(newFakeUserStore(), sessions)

	sess := &model.Session{
		TokenHash: "old-hash",
		UserID:    "user-1",
		Email:     "user@example.com",
		ExpiresAt: time.Now().Add(time.Minute),
	}
	sessions.sessions["old-hash"] = sess

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req = req.WithContext(auth.ContextWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	h.Refresh(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}

	var resp dto.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !auth.ValidTokenFormat(resp.Token) {
		t.Errorf("rotated token %q should match the session token format", resp.Token)
	}

	// Old token hash is gone, new one is stored with a renewed expiry
	if _, ok := sessions.sessions["old-hash"]; ok {
		t.Error("old session should be removed after rotation")
	}
	renewed, ok := sessions.sessions[auth.HashToken(resp.Token)]
	if !ok {
		t.Fatal("rotated session should be stored under the new token hash")
	}
	if !renewed.ExpiresAt.After(sess.ExpiresAt) {
		t.Error("rotation should renew the session expiry")
	}
	if renewed.UserID != "user-1" || renewed.Email != "user@example.com" {
		t.Errorf("rotated session identity = %s/%s", renewed.UserID, renewed.Email)
	}
}

func TestMe_ReturnsSession(t *testing.T) {
	t.Parallel()

	h := newAuthHandlerForTest(newFakeUserStore(), newFakeSessionStore())

	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	sess := &model.Session{TokenHash: "h", UserID: "user-9", Email: "me@example.com", ExpiresAt: expires}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req = req.WithContext(auth.ContextWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp dto.MeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.UserID != "user-9" || resp.Email != "me@example.com" {
		t.Errorf("me = %+v", resp)
	}
	if !resp.ExpiresAt.Equal(expires) {
		t.Errorf("ExpiresAt = %s, want %s", resp.ExpiresAt, expires)
	}
}
