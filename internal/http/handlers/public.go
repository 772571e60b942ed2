package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/notifycsc/notify-csc/internal/core"
)

// Public responses never echo input or internal error text.
const (
	msgNotFound      = "No insurance record found"
	msgInvalidType   = "Invalid search type. Use 'vehicle' or 'mobile'"
	msgVehicleNeeded = "Vehicle number is required"
	msgMobileInvalid = "Please provide a valid 10-digit mobile number"
	msgBadRequest    = "Invalid request"
	msgServerError   = "Unable to process your request. Please try again later"
	msgTooMany       = "Too many requests. Please try again later"
)

type SearchType string

const (
	SearchByVehicle SearchType = "vehicle"
	SearchByMobile  SearchType = "mobile"
)

type CheckInsuranceRequest struct {
	SearchType    SearchType `json:"searchType"`
	VehicleNumber string     `json:"vehicleNumber,omitempty"`
	MobileNumber  string     `json:"mobileNumber,omitempty"`
}

type CheckInsuranceResponse struct {
	Success bool                   `json:"success"`
	Data    []core.MaskedInsurance `json:"data,omitempty"`
	Count   int                    `json:"count,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// PublicHandler serves the unauthenticated endpoints used by the public site.
type PublicHandler struct {
	Lookup        core.PublicInsuranceService
	Announcements core.AnnouncementService
	Log           *slog.Logger
	// CheckLimiter wraps the lookup endpoint, normally a per-IP rate limiter.
	CheckLimiter func(http.Handler) http.Handler
}

func NewPublicHandler(lookup core.PublicInsuranceService, announcements core.AnnouncementService, log *slog.Logger, limiter func(http.Handler) http.Handler) *PublicHandler {
	return &PublicHandler{Lookup: lookup, Announcements: announcements, Log: log, CheckLimiter: limiter}
}

func (h *PublicHandler) Mount(r chi.Router) {
	r.Route("/public", func(r chi.Router) {
		check := r
		if h.CheckLimiter != nil {
			check = r.With(h.CheckLimiter)
		}
		check.Post("/check-insurance", h.CheckInsurance)
		r.Get("/announcements", h.ListAnnouncements)
		r.Post("/devices", h.RegisterDevice)
	})
}

// CheckInsurance looks up a vehicle's insurance status by registration or
// mobile number and returns masked summaries only.
// 200: data; 400: malformed input; 404: no match; 500: generic failure.
func (h *PublicHandler) CheckInsurance(w http.ResponseWriter, r *http.Request) {
	var req CheckInsuranceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	var (
		data []core.MaskedInsurance
		err  error
	)
	switch SearchType(strings.ToLower(string(req.SearchType))) {
	case SearchByVehicle:
		if strings.TrimSpace(req.VehicleNumber) == "" {
			h.fail(w, http.StatusBadRequest, msgVehicleNeeded)
			return
		}
		data, err = h.Lookup.CheckByVehicle(r.Context(), req.VehicleNumber)
	case SearchByMobile:
		if !core.IsValidMobile(strings.TrimSpace(req.MobileNumber)) {
			h.fail(w, http.StatusBadRequest, msgMobileInvalid)
			return
		}
		data, err = h.Lookup.CheckByMobile(r.Context(), req.MobileNumber)
	default:
		h.fail(w, http.StatusBadRequest, msgInvalidType)
		return
	}

	switch {
	case errors.Is(err, core.ErrValidation):
		h.fail(w, http.StatusBadRequest, msgBadRequest)
		return
	case err != nil:
		h.Log.ErrorContext(r.Context(), "public insurance lookup failed", "search_type", req.SearchType, "err", err)
		h.fail(w, http.StatusInternalServerError, msgServerError)
		return
	case len(data) == 0:
		h.fail(w, http.StatusNotFound, msgNotFound)
		return
	}

	writeJSON(h.Log, w, http.StatusOK, CheckInsuranceResponse{Success: true, Data: data, Count: len(data)})
}

func (h *PublicHandler) fail(w http.ResponseWriter, status int, msg string) {
	writeJSON(h.Log, w, status, CheckInsuranceResponse{Success: false, Message: msg})
}

// RejectTooMany is the rate limiter's response on the public lookup path.
func RejectTooMany(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(CheckInsuranceResponse{Success: false, Message: msgTooMany})
}

// ListAnnouncements returns published announcements, newest first.
func (h *PublicHandler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}
	res, err := h.Announcements.ListPublished(r.Context(), page, limit)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to list announcements")
		return
	}
	writeJSON(h.Log, w, http.StatusOK, res)
}

// RegisterDevice stores an FCM registration token for announcement pushes.
// 204: stored; 400: invalid token or platform.
func (h *PublicHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	var in core.DeviceInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := h.Announcements.RegisterDevice(r.Context(), in); err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
