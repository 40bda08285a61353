package handler

import (
	"net/http"

	"github.com/gestix/gestix/internal/handler/dto"
	"github.com/gestix/gestix/internal/model"
)

// RoutesHandler serves the static navigation table.
type RoutesHandler struct {
	routes []model.Route
}

// NewRoutesHandler creates a new RoutesHandler over the startup route table.
func NewRoutesHandler(routes []model.Route) *RoutesHandler {
	return &RoutesHandler{routes: routes}
}

// List handles GET /api/v1/routes. The ?current= query marks the entry
// whose path matches exactly; no match means no active entry.
func (h *RoutesHandler) List(w http.ResponseWriter, r *http.Request) {
	current := r.URL.Query().Get("current")

	out := make([]dto.RouteResponse, len(h.routes))
	for i, route := range h.routes {
		out[i] = dto.RouteResponse{
			Route:  route,
			Active: current != "" && route.Path == current,
		}
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[dto.RouteResponse]{Data: out})
}
