package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/notifycsc/notify-csc/internal/core"
	"github.com/notifycsc/notify-csc/internal/middleware"
	"github.com/notifycsc/notify-csc/pkg/problem"
)

// UserHandler is the admin-only account approval surface.
type UserHandler struct {
	Svc core.UserService
	Log *slog.Logger
}

func NewUserHandler(svc core.UserService, log *slog.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Log: log}
}

func (h *UserHandler) Mount(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.RequireRoles(core.RoleAdmin))
		r.Get("/", h.List)
		r.Post("/{user_id}:approve", h.Approve)
		r.Post("/{user_id}:reject", h.Reject)
	})
}

// List returns accounts, optionally filtered by ?status=pending|approved|rejected.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	var f core.UserFilter
	switch s := core.UserStatus(strings.ToLower(r.URL.Query().Get("status"))); s {
	case "":
	case core.UserStatusPending, core.UserStatusApproved, core.UserStatusRejected:
		f.Status = s
	default:
		problem.Write(w, http.StatusBadRequest, "Validation Error", "status must be one of pending, approved, rejected")
		return
	}

	users, err := h.Svc.List(r.Context(), f)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to list users")
		return
	}
	writeJSON(h.Log, w, http.StatusOK, users)
}

// Approve activates a pending account.
// 200: user; 404: not found; 409: not pending.
func (h *UserHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "user_id")
	u, err := h.Svc.Approve(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}
	h.Log.InfoContext(r.Context(), "user approved", "user_id", id)
	writeJSON(h.Log, w, http.StatusOK, u)
}

// Reject declines a pending account.
// 200: user; 404: not found; 409: not pending.
func (h *UserHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "user_id")
	u, err := h.Svc.Reject(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}
	h.Log.InfoContext(r.Context(), "user rejected", "user_id", id)
	writeJSON(h.Log, w, http.StatusOK, u)
}
