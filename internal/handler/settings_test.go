package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gestix/gestix/internal/auth"
	"github.com/gestix/gestix/internal/model"
	"github.com/gestix/gestix/internal/repository"
)

// fakeProfileStore is an in-memory ProfileStore keyed by user ID.
type fakeProfileStore struct {
	profiles map[string]*model.Profile
}

func (s *fakeProfileStore) Get(_ context.Context, userID string) (*model.Profile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *fakeProfileStore) Upsert(_ context.Context, p *model.Profile) error {
	copied := *p
	s.profiles[p.UserID] = &copied
	return nil
}

func settingsRequest(t *testing.T, h *SettingsHandler, userID, method string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, "/api/v1/settings/profile", bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, "/api/v1/settings/profile", nil)
	}
	req = req.WithContext(auth.ContextWithSession(req.Context(), testSession(userID)))

	rec := httptest.NewRecorder()
	switch method {
	case http.MethodGet:
		h.Get(rec, req)
	case http.MethodPut:
		h.Put(rec, req)
	}
	return rec
}

func TestSettings_GetUnsavedProfileIsEmpty(t *testing.T) {
	t.Parallel()

	store := &fakeProfileStore{profiles: make(map[string]*model.Profile)}
	h := NewSettingsHandler(store, testLogger())

	rec := settingsRequest(t, h, "user-1", http.MethodGet, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (never-saved profile is not a 404)", rec.Code)
	}

	var profile model.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if profile.UserID != "user-1" {
		t.Errorf("UserID = %s, want user-1", profile.UserID)
	}
	if profile.DisplayName != "" || profile.CompanyName != "" {
		t.Errorf("unsaved profile should be empty, got %+v", profile)
	}
}

func TestSettings_PutThenGet(t *testing.T) {
	t.Parallel()

	store := &fakeProfileStore{profiles: make(map[string]*model.Profile)}
	h := NewSettingsHandler(store, testLogger())

	body := []byte(`{"display_name":"Ana","company_name":"Assistência TecFix","phone":"+55 11 98888-7777"}`)
	rec := settingsRequest(t, h, "user-1", http.MethodPut, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d; body: %s", rec.Code, rec.Body.String())
	}

	rec = settingsRequest(t, h, "user-1", http.MethodGet, nil)
	var profile model.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if profile.DisplayName != "Ana" || profile.CompanyName != "Assistência TecFix" {
		t.Errorf("profile = %+v", profile)
	}
	if profile.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be stamped on save")
	}
}

func TestSettings_PutIgnoresClientUserID(t *testing.T) {
	t.Parallel()

	store := &fakeProfileStore{profiles: make(map[string]*model.Profile)}
	h := NewSettingsHandler(store, testLogger())

	body := []byte(`{"user_id":"someone-else","display_name":"Mallory"}`)
	rec := settingsRequest(t, h, "user-1", http.MethodPut, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	if _, ok := store.profiles["someone-else"]; ok {
		t.Error("profile must be stored under the session user, not the body's user_id")
	}
	if _, ok := store.profiles["user-1"]; !ok {
		t.Error("profile should be stored under the session user")
	}
}
