package handlers

import "github.com/go-chi/chi/v5"

// Mountable is implemented by every feature handler; the router mounts each
// one under /api.
type Mountable interface {
	Mount(r chi.Router)
}

// MessageResponse is the body of endpoints that only confirm an action.
type MessageResponse struct {
	Message string `json:"message"`
}
