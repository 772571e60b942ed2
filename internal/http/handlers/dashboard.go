package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/notifycsc/notify-csc/internal/core"
)

type DashboardHandler struct {
	Svc core.InsuranceService
	Log *slog.Logger
}

func NewDashboardHandler(svc core.InsuranceService, log *slog.Logger) *DashboardHandler {
	return &DashboardHandler{Svc: svc, Log: log}
}

func (h *DashboardHandler) Mount(r chi.Router) {
	r.Get("/dashboard/stats", h.Stats)
}

// Stats returns the per-bucket record counts.
// 200: JSON; 500: internal error.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.DashboardStatistics(r.Context())
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to load dashboard statistics")
		return
	}
	writeJSON(h.Log, w, http.StatusOK, stats)
}
