package handler

import (
	"log/slog"
	"net/http"

	"github.com/gestix/gestix/internal/auth"
	"github.com/gestix/gestix/internal/service"
)

// DashboardHandler serves the aggregated dashboard summary.
type DashboardHandler struct {
	svc    *service.DashboardService
	logger *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(svc *service.DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, logger: logger}
}

// Stats handles GET /api/v1/dashboard/stats. The aggregation is
// all-or-nothing: a single failed count fails the whole response.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustSessionFromContext(r.Context()).UserID

	stats, err := h.svc.Stats(r.Context(), userID)
	if err != nil {
		h.logger.Error("dashboard stats failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
