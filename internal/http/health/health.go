package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Pinger is implemented by both store backends.
type Pinger interface {
	Ping(ctx context.Context) error
}

type status struct {
	Status string `json:"status"`
	Store  string `json:"store,omitempty"`
}

// New builds the liveness (/health) and readiness (/readyz) endpoints.
func New(log *slog.Logger, p Pinger, storeName string, opTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		write(w, http.StatusOK, status{Status: "ok"})
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
		defer cancel()

		if err := p.Ping(ctx); err != nil {
			log.WarnContext(ctx, "readiness failed", "store", storeName, "err", err)
			write(w, http.StatusServiceUnavailable, status{Status: "unavailable", Store: storeName})
			return
		}
		write(w, http.StatusOK, status{Status: "ready", Store: storeName})
	})

	return r
}

func write(w http.ResponseWriter, code int, body status) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
