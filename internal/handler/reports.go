package handler

import (
	"log/slog"
	"net/http"

	"github.com/gestix/gestix/internal/auth"
	"github.com/gestix/gestix/internal/service"
)

// ReportsHandler serves the aggregated business rollups.
type ReportsHandler struct {
	svc    *service.ReportsService
	logger *slog.Logger
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(svc *service.ReportsService, logger *slog.Logger) *ReportsHandler {
	return &ReportsHandler{svc: svc, logger: logger}
}

// Summary handles GET /api/v1/reports/summary.
func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustSessionFromContext(r.Context()).UserID

	summary, err := h.svc.Summary(r.Context(), userID)
	if err != nil {
		h.logger.Error("report summary failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
