package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/notifycsc/notify-csc/internal/core"
	"github.com/notifycsc/notify-csc/internal/middleware"
)

// AnnouncementHandler is the admin management surface for announcements.
type AnnouncementHandler struct {
	Svc core.AnnouncementService
	Log *slog.Logger
}

func NewAnnouncementHandler(svc core.AnnouncementService, log *slog.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{Svc: svc, Log: log}
}

func (h *AnnouncementHandler) Mount(r chi.Router) {
	r.Route("/announcements", func(r chi.Router) {
		r.Use(middleware.RequireRoles(core.RoleAdmin))
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{announcement_id}", h.Get)
		r.Patch("/{announcement_id}", h.Patch)
		r.Delete("/{announcement_id}", h.Delete)
	})
}

func (h *AnnouncementHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}
	res, err := h.Svc.List(r.Context(), page, limit)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to list announcements")
		return
	}
	writeJSON(h.Log, w, http.StatusOK, res)
}

// Create stores an announcement; with notify=true on a published one it
// queues a push broadcast.
func (h *AnnouncementHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var in core.AnnouncementInput
	if !decodeJSON(w, r, &in) {
		return
	}

	a, err := h.Svc.Create(r.Context(), in, p)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}
	h.Log.InfoContext(r.Context(), "announcement created", "announcement_id", a.ID, "push_status", a.PushStatus)
	writeJSON(h.Log, w, http.StatusCreated, a)
}

func (h *AnnouncementHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.Svc.Get(r.Context(), chi.URLParam(r, "announcement_id"))
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Announcement not found")
		return
	}
	writeJSON(h.Log, w, http.StatusOK, a)
}

func (h *AnnouncementHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "announcement_id")
	var patch core.AnnouncementPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	a, err := h.Svc.Update(r.Context(), id, patch)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}
	writeJSON(h.Log, w, http.StatusOK, a)
}

func (h *AnnouncementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "announcement_id")

	if err := h.Svc.Delete(r.Context(), id, p); err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}
	writeJSON(h.Log, w, http.StatusOK, MessageResponse{Message: "Announcement deleted successfully"})
}

func pageParams(r *http.Request) (page, limit int, err error) {
	v := r.URL.Query()
	if page, err = intParam(v.Get("page"), "page"); err != nil {
		return 0, 0, err
	}
	if limit, err = intParam(v.Get("limit"), "limit"); err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}
