package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/notifycsc/notify-csc/internal/core"
)

// AuthHandler serves the unauthenticated sign-up and sign-in endpoints.
type AuthHandler struct {
	Svc core.AuthService
	Log *slog.Logger
}

func NewAuthHandler(svc core.AuthService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Log: log}
}

func (h *AuthHandler) Mount(r chi.Router) {
	// Flat routes: /auth/me lives in the authenticated group.
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
}

// Register creates a pending staff account.
// 201: user; 400: validation; 409: e-mail taken.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in core.RegisterInput
	if !decodeJSON(w, r, &in) {
		return
	}

	u, err := h.Svc.Register(r.Context(), in)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	h.Log.InfoContext(r.Context(), "user registered", "user_id", u.ID)
	writeJSON(h.Log, w, http.StatusCreated, u)
}

// Login exchanges credentials for an access token.
// 200: token and user; 401: bad credentials; 403: not approved.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in core.LoginInput
	if !decodeJSON(w, r, &in) {
		return
	}

	res, err := h.Svc.Login(r.Context(), in)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}
	writeJSON(h.Log, w, http.StatusOK, res)
}

// SessionHandler serves endpoints about the signed-in caller.
type SessionHandler struct {
	Log *slog.Logger
}

func NewSessionHandler(log *slog.Logger) *SessionHandler {
	return &SessionHandler{Log: log}
}

func (h *SessionHandler) Mount(r chi.Router) {
	r.Get("/auth/me", h.Me)
}

func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	writeJSON(h.Log, w, http.StatusOK, p)
}
