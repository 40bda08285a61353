package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gestix/gestix/internal/auth"
	"github.com/gestix/gestix/internal/model"
	"github.com/gestix/gestix/internal/repository"
)

// ProfileStore is the settings storage contract.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (*model.Profile, error)
	Upsert(ctx context.Context, p *model.Profile) error
}

// SettingsHandler serves the per-user settings profile.
type SettingsHandler struct {
	profiles ProfileStore
	logger   *slog.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(profiles ProfileStore, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{profiles: profiles, logger: logger}
}

// Get handles GET /api/v1/settings/profile. A user who never saved a
// profile gets an empty one, not a 404.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustSessionFromContext(r.Context()).UserID

	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusOK, &model.Profile{UserID: userID})
			return
		}
		h.logger.Error("profile fetch failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// Put handles PUT /api/v1/settings/profile.
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustSessionFromContext(r.Context()).UserID

	var profile model.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	profile.UserID = userID
	profile.UpdatedAt = time.Now().UTC()

	if err := h.profiles.Upsert(r.Context(), &profile); err != nil {
		h.logger.Error("profile save failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, &profile)
}
