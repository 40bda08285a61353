package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/gestix/gestix/internal/auth"
	"github.com/gestix/gestix/internal/handler/dto"
	"github.com/gestix/gestix/internal/metrics"
	"github.com/gestix/gestix/internal/model"
	"github.com/gestix/gestix/internal/repository"
)

// EntityStore is the repository contract the generic CRUD handler needs.
// Every method is scoped to the owning user; a record owned by someone
// else behaves exactly like a missing one.
type EntityStore[R model.Record] interface {
	List(ctx context.Context, userID string) ([]R, error)
	Get(ctx context.Context, userID, id string) (R, error)
	Create(ctx context.Context, record R) error
	Update(ctx context.Context, record R) error
	Delete(ctx context.Context, userID, id string) error
}

// CRUDHandler serves one entity's list/get/create/update/delete endpoints.
// The five business screens are instances of this one handler; nothing
// entity-specific lives here beyond the optional update check.
type CRUDHandler[R model.Record] struct {
	entity    string
	store     EntityStore[R]
	newRecord func() R

	// checkUpdate, when set, is called with the stored record and the
	// incoming one before an update is applied. Used for status
	// lifecycle enforcement.
	checkUpdate func(old, updated R) error

	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewCRUDHandler creates a CRUD handler for one entity.
func NewCRUDHandler[R model.Record](
	entity string,
	store EntityStore[R],
	newRecord func() R,
	checkUpdate func(old, updated R) error,
	logger *slog.Logger,
	recorder metrics.Recorder,
) *CRUDHandler[R] {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &CRUDHandler[R]{
		entity:      entity,
		store:       store,
		newRecord:   newRecord,
		checkUpdate: checkUpdate,
		logger:      logger,
		metrics:     recorder,
	}
}

// Mount registers the CRUD routes on a router.
func (h *CRUDHandler[R]) Mount(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List handles GET /. The optional ?q= filter is a case-insensitive
// substring match over the entity's text fields, applied in-process over
// the already user-scoped list.
func (h *CRUDHandler[R]) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustSessionFromContext(r.Context()).UserID

	records, err := h.store.List(r.Context(), userID)
	if err != nil {
		h.handleStoreError(w, err)
		return
	}

	if q := r.URL.Query().Get("q"); q != "" {
		records = filterRecords(records, q)
	}

	if records == nil {
		records = []R{}
	}
	writeJSON(w, http.StatusOK, dto.ListResponse[R]{Data: records})
}

// Get handles GET /{id}.
func (h *CRUDHandler[R]) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustSessionFromContext(r.Context()).UserID
	id := chi.URLParam(r, "id")

	record, err := h.store.Get(r.Context(), userID, id)
	if err != nil {
		h.handleStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// Create handles POST /. The owner and identity always come from the
// session and the server, never from the request body.
func (h *CRUDHandler[R]) Create(w http.ResponseWriter, r *http.Request) {
	session := auth.MustSessionFromContext(r.Context())

	record := h.newRecord()
	if err := json.NewDecoder(r.Body).Decode(record); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if err := record.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	now := time.Now().UTC()
	record.SetRecordID(ulid.Make().String())
	record.SetOwnerID(session.UserID)
	record.StampCreated(now)

	if err := h.store.Create(r.Context(), record); err != nil {
		h.handleStoreError(w, err)
		return
	}

	h.metrics.IncRecordCreated(h.entity)
	h.logger.Info("record_created",
		"entity", h.entity,
		"record_id", record.RecordID(),
		"user_id", session.UserID,
	)

	writeJSON(w, http.StatusCreated, record)
}

// Update handles PUT /{id}. The whole record is rewritten; clients send
// the full field set, as the single shared form does.
func (h *CRUDHandler[R]) Update(w http.ResponseWriter, r *http.Request) {
	session := auth.MustSessionFromContext(r.Context())
	id := chi.URLParam(r, "id")

	record := h.newRecord()
	if err := json.NewDecoder(r.Body).Decode(record); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if err := record.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	record.SetRecordID(id)
	record.SetOwnerID(session.UserID)
	record.StampUpdated(time.Now().UTC())

	if h.checkUpdate != nil {
		old, err := h.store.Get(r.Context(), session.UserID, id)
		if err != nil {
			h.handleStoreError(w, err)
			return
		}
		if err := h.checkUpdate(old, record); err != nil {
			writeError(w, http.StatusConflict, "CONFLICT", err.Error())
			return
		}
	}

	if err := h.store.Update(r.Context(), record); err != nil {
		h.handleStoreError(w, err)
		return
	}

	h.metrics.IncRecordUpdated(h.entity)
	h.logger.Info("record_updated",
		"entity", h.entity,
		"record_id", id,
		"user_id", session.UserID,
	)

	// Return the stored row so timestamps reflect the database.
	updated, err := h.store.Get(r.Context(), session.UserID, id)
	if err != nil {
		h.handleStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /{id}. Deleting an unknown ID succeeds: the
// outcome the caller asked for already holds.
func (h *CRUDHandler[R]) Delete(w http.ResponseWriter, r *http.Request) {
	session := auth.MustSessionFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.store.Delete(r.Context(), session.UserID, id); err != nil {
		h.handleStoreError(w, err)
		return
	}

	h.metrics.IncRecordDeleted(h.entity)
	h.logger.Info("record_deleted",
		"entity", h.entity,
		"record_id", id,
		"user_id", session.UserID,
	)

	w.WriteHeader(http.StatusNoContent)
}

// handleStoreError maps repository errors to HTTP responses.
func (h *CRUDHandler[R]) handleStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", h.entity+" not found")
	default:
		h.logger.Error("internal_error", "entity", h.entity, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// filterRecords keeps the records whose search text contains the query,
// case-insensitively.
func filterRecords[R model.Record](records []R, query string) []R {
	q := strings.ToLower(query)
	out := make([]R, 0, len(records))
	for _, rec := range records {
		for _, field := range rec.SearchText() {
			if strings.Contains(strings.ToLower(field), q) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// OrderTransitionCheck enforces the service-order status lifecycle on update.
func OrderTransitionCheck(old, updated *model.ServiceOrder) error {
	if !model.CanTransition(old.Status, updated.Status) {
		return model.ErrInvalidTransition
	}
	return nil
}
