package handler

import (
	"net/http"

	"worktracker.service/internal/core"
)

type DashboardHandler struct {
	Service *core.DashboardService
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.Service.Summary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
