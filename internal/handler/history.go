package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gestix/gestix/internal/auth"
	"github.com/gestix/gestix/internal/handler/dto"
	"github.com/gestix/gestix/internal/model"
)

// HistorySource lists a user's service orders in the given statuses.
type HistorySource interface {
	ListByStatuses(ctx context.Context, userID string, statuses []model.OrderStatus) ([]*model.ServiceOrder, error)
}

// HistoryHandler serves the read-only history screen: service orders
// that reached a terminal status, most recently updated first.
type HistoryHandler struct {
	orders HistorySource
	logger *slog.Logger
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(orders HistorySource, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{orders: orders, logger: logger}
}

// List handles GET /api/v1/history. Supports the same ?q= substring
// filter as the entity screens.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustSessionFromContext(r.Context()).UserID

	orders, err := h.orders.ListByStatuses(r.Context(), userID, model.TerminalOrderStatuses)
	if err != nil {
		h.logger.Error("history list failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	if q := r.URL.Query().Get("q"); q != "" {
		orders = filterRecords(orders, q)
	}

	if orders == nil {
		orders = []*model.ServiceOrder{}
	}
	writeJSON(w, http.StatusOK, dto.ListResponse[*model.ServiceOrder]{Data: orders})
}
