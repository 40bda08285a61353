package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/gestix/gestix/internal/auth"
	"github.com/gestix/gestix/internal/handler/dto"
	"github.com/gestix/gestix/internal/metrics"
	"github.com/gestix/gestix/internal/model"
	"github.com/gestix/gestix/internal/repository"
)

const minPasswordLength = 8

// minLoginDuration is the minimum time to spend on a failed login so
// response timing does not reveal whether the email exists.
const minLoginDuration = 200 * time.Millisecond

// UserStore is the account storage contract the auth handler needs.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// SessionStore owns session lifecycle: the auth handler creates, rotates
// and destroys sessions; the middleware only observes them.
type SessionStore interface {
	PutSession(ctx context.Context, s *model.Session) error
	DeleteSession(ctx context.Context, tokenHash string) error
	RotateSession(ctx context.Context, oldHash string, s *model.Session) error
}

// AuthHandler serves signup, login, logout, refresh and me.
type AuthHandler struct {
	users      UserStore
	sessions   SessionStore
	sessionTTL time.Duration
	logger     *slog.Logger
	metrics    metrics.Recorder
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users UserStore, sessions SessionStore, sessionTTL time.Duration, logger *slog.Logger, recorder metrics.Recorder) *AuthHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthHandler{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		logger:     logger,
		metrics:    recorder,
	}
}

// Signup handles POST /api/v1/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "VALIDATION", "A valid email is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "VALIDATION", "Password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("password hash failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			writeError(w, http.StatusConflict, "EMAIL_TAKEN", "Email already registered")
			return
		}
		h.logger.Error("signup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	h.metrics.IncSignup()
	h.logger.Info("user_created", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, dto.ToUserResponse(user))
}

// Login handles POST /api/v1/auth/login. Credential failures share one
// response so callers cannot probe which accounts exist.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION", "Email and password are required")
		return
	}

	start := time.Now()

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.failLogin(w, r, start, "unknown_email")
			return
		}
		h.logger.Error("login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	match, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !match {
		h.failLogin(w, r, start, "bad_password")
		return
	}

	session, token, err := h.mintSession(r.Context(), user)
	if err != nil {
		h.logger.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	h.metrics.IncLogin("success")
	h.logger.Info("login_succeeded", "user_id", user.ID)

	writeJSON(w, http.StatusOK, dto.SessionResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User:      dto.ToUserResponse(user),
	})
}

// Logout handles POST /api/v1/auth/logout (behind the session middleware).
// On failure the session is left intact so the caller can retry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := auth.MustSessionFromContext(r.Context())

	if err := h.sessions.DeleteSession(r.Context(), session.TokenHash); err != nil {
		h.logger.Error("sign out failed", "error", err, "user_id", session.UserID)
		writeError(w, http.StatusInternalServerError, "SIGN_OUT_FAILED", "Could not sign out, please retry")
		return
	}

	h.metrics.IncSignOut()
	h.logger.Info("signed_out", "user_id", session.UserID)

	w.WriteHeader(http.StatusNoContent)
}

// Refresh handles POST /api/v1/auth/refresh (behind the session middleware).
// The token is rotated and the expiry renewed; the old token stops working.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	session := auth.MustSessionFromContext(r.Context())

	generated, err := auth.GenerateSessionToken()
	if err != nil {
		h.logger.Error("token generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	next := &model.Session{
		TokenHash: generated.Hash,
		UserID:    session.UserID,
		Email:     session.Email,
		ExpiresAt: time.Now().UTC().Add(h.sessionTTL),
	}

	if err := h.sessions.RotateSession(r.Context(), session.TokenHash, next); err != nil {
		h.logger.Error("session rotation failed", "error", err, "user_id", session.UserID)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	h.metrics.IncSessionRefreshed()
	h.logger.Info("session_refreshed", "user_id", session.UserID, "token_prefix", generated.Prefix)

	writeJSON(w, http.StatusOK, dto.SessionResponse{
		Token:     generated.Plaintext,
		ExpiresAt: next.ExpiresAt,
		User:      dto.UserResponse{ID: session.UserID, Email: session.Email},
	})
}

// Me handles GET /api/v1/auth/me (behind the session middleware).
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := auth.MustSessionFromContext(r.Context())

	writeJSON(w, http.StatusOK, dto.MeResponse{
		UserID:    session.UserID,
		Email:     session.Email,
		ExpiresAt: session.ExpiresAt,
	})
}

// mintSession creates and stores a fresh session for a user.
func (h *AuthHandler) mintSession(ctx context.Context, user *model.User) (*model.Session, string, error) {
	generated, err := auth.GenerateSessionToken()
	if err != nil {
		return nil, "", err
	}

	session := &model.Session{
		TokenHash: generated.Hash,
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: time.Now().UTC().Add(h.sessionTTL),
	}

	if err := h.sessions.PutSession(ctx, session); err != nil {
		return nil, "", err
	}

	return session, generated.Plaintext, nil
}

// failLogin records a failed attempt and writes the uniform credential
// error. The response is padded to minLoginDuration so the unknown-email
// path, which skips password verification, takes as long as the rest.
func (h *AuthHandler) failLogin(w http.ResponseWriter, r *http.Request, start time.Time, reason string) {
	if elapsed := time.Since(start); elapsed < minLoginDuration {
		time.Sleep(minLoginDuration - elapsed)
	}

	h.metrics.IncLogin("failed")
	h.logger.Warn("login_failed",
		"reason", reason,
		"ip", r.RemoteAddr,
	)
	writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
}
