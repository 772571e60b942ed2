package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/notifycsc/notify-csc/internal/core"
	"github.com/notifycsc/notify-csc/internal/middleware"
	"github.com/notifycsc/notify-csc/pkg/problem"
)

// writeError maps a service error to a problem response. detail is shown to
// the client for the 4xx cases; 5xx responses never carry err's text.
func writeError(ctx context.Context, log *slog.Logger, w http.ResponseWriter, err error, detail string) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		log.WarnContext(ctx, "resource not found", "err", err)
		problem.Write(w, http.StatusNotFound, "Not Found", detail)

	case errors.Is(err, core.ErrValidation):
		log.WarnContext(ctx, "validation failed", "err", err)
		problem.Write(w, http.StatusBadRequest, "Validation Error", detail)

	case errors.Is(err, core.ErrConflict):
		log.WarnContext(ctx, "resource conflict", "err", err)
		problem.Write(w, http.StatusConflict, "Conflict", detail)

	case errors.Is(err, core.ErrInvalidState):
		log.WarnContext(ctx, "invalid state transition", "err", err)
		problem.Write(w, http.StatusConflict, "Invalid State", detail)

	case errors.Is(err, core.ErrUnauthorized):
		log.WarnContext(ctx, "unauthorized request", "err", err)
		problem.Write(w, http.StatusUnauthorized, "Unauthorized", detail)

	case errors.Is(err, core.ErrForbidden):
		log.WarnContext(ctx, "forbidden operation", "err", err)
		problem.Write(w, http.StatusForbidden, "Forbidden", detail)

	case errors.Is(err, core.ErrReminderDelivery):
		log.ErrorContext(ctx, "notification delivery failed", "err", err)
		problem.Write(w, http.StatusBadGateway, "Delivery Failed", "The reminder could not be delivered.")

	case errors.Is(err, context.DeadlineExceeded):
		log.ErrorContext(ctx, "operation timeout", "err", err)
		problem.Write(w, http.StatusGatewayTimeout, "Timeout", "Operation took too long.")

	default:
		log.ErrorContext(ctx, "internal server error", "err", err)
		problem.Write(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred.")
	}
}

func writeJSON(log *slog.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", "err", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return false
	}
	return true
}

// principal returns the caller set by middleware.RequireAuth, writing 401
// when it is absent.
func principal(w http.ResponseWriter, r *http.Request) (core.Principal, bool) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		problem.Write(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
	}
	return p, ok
}
