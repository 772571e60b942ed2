package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/notifycsc/notify-csc/internal/core"
	"github.com/notifycsc/notify-csc/internal/middleware"
	"github.com/notifycsc/notify-csc/pkg/problem"
)

const dateLayout = "2006-01-02"

type InsuranceHandler struct {
	Svc       core.InsuranceService
	Reminders core.ReminderService
	Log       *slog.Logger
}

func NewInsuranceHandler(svc core.InsuranceService, reminders core.ReminderService, log *slog.Logger) *InsuranceHandler {
	return &InsuranceHandler{Svc: svc, Reminders: reminders, Log: log}
}

func (h *InsuranceHandler) Mount(r chi.Router) {
	r.Route("/insurances", func(r chi.Router) {
		r.With(middleware.RequireRoles(core.RoleStaff, core.RoleAdmin)).Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{insurance_id}", h.Get)
		r.With(middleware.RequireRoles(core.RoleAdmin)).Patch("/{insurance_id}", h.Patch)
		r.Delete("/{insurance_id}", h.Delete)
		r.Post("/{insurance_id}:remind", h.Remind)
		r.Get("/{insurance_id}/reminders", h.ListReminders)
	})
}

// insuranceRequest accepts dates as YYYY-MM-DD or RFC 3339.
type insuranceRequest struct {
	RegistrationNumber    string             `json:"registrationNumber"`
	CustomerName          string             `json:"customerName"`
	MobileNumber          string             `json:"mobileNumber"`
	AlternateMobileNumber string             `json:"alternateMobileNumber"`
	VehicleType           core.VehicleType   `json:"vehicleType"`
	InsuranceType         core.InsuranceType `json:"insuranceType"`
	PolicyStartDate       string             `json:"policyStartDate"`
	PolicyExpiryDate      string             `json:"policyExpiryDate"`
	Remarks               string             `json:"remarks"`
}

func (req insuranceRequest) toInput() (core.InsuranceInput, error) {
	in := core.InsuranceInput{
		RegistrationNumber:    req.RegistrationNumber,
		CustomerName:          req.CustomerName,
		MobileNumber:          req.MobileNumber,
		AlternateMobileNumber: req.AlternateMobileNumber,
		VehicleType:           req.VehicleType,
		InsuranceType:         req.InsuranceType,
		Remarks:               req.Remarks,
	}
	var err error
	if req.PolicyStartDate != "" {
		if in.PolicyStartDate, err = parseDate("policyStartDate", req.PolicyStartDate); err != nil {
			return in, err
		}
	}
	if req.PolicyExpiryDate != "" {
		if in.PolicyExpiryDate, err = parseDate("policyExpiryDate", req.PolicyExpiryDate); err != nil {
			return in, err
		}
	}
	return in, nil
}

type insurancePatchRequest struct {
	RegistrationNumber    *string             `json:"registrationNumber"`
	CustomerName          *string             `json:"customerName"`
	MobileNumber          *string             `json:"mobileNumber"`
	AlternateMobileNumber *string             `json:"alternateMobileNumber"`
	VehicleType           *core.VehicleType   `json:"vehicleType"`
	InsuranceType         *core.InsuranceType `json:"insuranceType"`
	PolicyStartDate       *string             `json:"policyStartDate"`
	PolicyExpiryDate      *string             `json:"policyExpiryDate"`
	Remarks               *string             `json:"remarks"`
}

func (req insurancePatchRequest) toPatch() (core.InsurancePatch, error) {
	p := core.InsurancePatch{
		RegistrationNumber:    req.RegistrationNumber,
		CustomerName:          req.CustomerName,
		MobileNumber:          req.MobileNumber,
		AlternateMobileNumber: req.AlternateMobileNumber,
		VehicleType:           req.VehicleType,
		InsuranceType:         req.InsuranceType,
		Remarks:               req.Remarks,
	}
	if req.PolicyStartDate != nil {
		d, err := parseDate("policyStartDate", *req.PolicyStartDate)
		if err != nil {
			return p, err
		}
		p.PolicyStartDate = &d
	}
	if req.PolicyExpiryDate != nil {
		d, err := parseDate("policyExpiryDate", *req.PolicyExpiryDate)
		if err != nil {
			return p, err
		}
		p.PolicyExpiryDate = &d
	}
	return p, nil
}

// parseDate reads a calendar date as local midnight, or a full RFC 3339 timestamp.
func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %s must be a valid date (YYYY-MM-DD)", core.ErrValidation, field)
}

// Create adds an insurance record owned by the caller.
// 201: JSON; 400: bad JSON/validation; 401: no token; 500: internal error.
func (h *InsuranceHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req insuranceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	ins, err := h.Svc.Add(r.Context(), in, p.UserID)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	h.Log.InfoContext(r.Context(), "insurance created", "insurance_id", ins.ID, "created_by", p.UserID)
	writeJSON(h.Log, w, http.StatusCreated, ins)
}

// List returns one page of records filtered by status, search and expiry range.
// 200: JSON; 400: bad query parameter; 500: internal error.
func (h *InsuranceHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := parseInsuranceQuery(r)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	page, err := h.Svc.List(r.Context(), q)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}
	writeJSON(h.Log, w, http.StatusOK, page)
}

func parseInsuranceQuery(r *http.Request) (core.InsuranceQuery, error) {
	v := r.URL.Query()
	q := core.InsuranceQuery{Search: v.Get("search")}

	if s := strings.TrimSpace(v.Get("status")); s != "" && !strings.EqualFold(s, "all") {
		st, err := core.ParseExpiryStatus(strings.ToUpper(s))
		if err != nil {
			return q, err
		}
		q.Status = st
	}

	var err error
	if q.Page, err = intParam(v.Get("page"), "page"); err != nil {
		return q, err
	}
	if q.Limit, err = intParam(v.Get("limit"), "limit"); err != nil {
		return q, err
	}

	for _, f := range []struct {
		name string
		dst  **time.Time
	}{{"expiryFrom", &q.ExpiryFrom}, {"expiryTo", &q.ExpiryTo}} {
		raw := v.Get(f.name)
		if raw == "" {
			continue
		}
		t, err := parseDate(f.name, raw)
		if err != nil {
			return q, err
		}
		*f.dst = &t
	}
	if q.ExpiryFrom != nil && q.ExpiryTo != nil && q.ExpiryTo.Before(*q.ExpiryFrom) {
		return q, fmt.Errorf("%w: expiryTo must not be before expiryFrom", core.ErrValidation)
	}
	return q, nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", core.ErrValidation, name)
	}
	return n, nil
}

// Get returns a single enriched record.
// 200: JSON; 404: not found or deleted; 500: internal error.
func (h *InsuranceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "insurance_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Insurance ID", "Path parameter insurance_id is required.")
		return
	}

	view, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Insurance record not found")
		return
	}
	writeJSON(h.Log, w, http.StatusOK, view)
}

// Patch updates a record; admin only.
// 200: JSON; 400: validation; 403: not admin; 404: not found; 500: internal error.
func (h *InsuranceHandler) Patch(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "insurance_id")

	var req insurancePatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	view, err := h.Svc.Update(r.Context(), id, patch, p)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	h.Log.InfoContext(r.Context(), "insurance updated", "insurance_id", id, "updated_by", p.UserID)
	writeJSON(h.Log, w, http.StatusOK, view)
}

// Delete soft-deletes a record; allowed for its creator or an admin.
// 200: message; 403: not owner/admin; 404: not found; 500: internal error.
func (h *InsuranceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "insurance_id")

	if err := h.Svc.SoftDelete(r.Context(), id, p); err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	h.Log.InfoContext(r.Context(), "insurance deleted", "insurance_id", id, "deleted_by", p.UserID)
	writeJSON(h.Log, w, http.StatusOK, MessageResponse{Message: "Insurance record deleted successfully"})
}

// Remind sends an expiry reminder SMS.
// 201: reminder; 400: outside window/no mobile; 404: not found; 502: delivery failed.
func (h *InsuranceHandler) Remind(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "insurance_id")

	rem, err := h.Reminders.Send(r.Context(), id, p)
	if err != nil {
		detail := err.Error()
		if errors.Is(err, core.ErrNotFound) {
			detail = "Insurance record not found"
		}
		writeError(r.Context(), h.Log, w, err, detail)
		return
	}
	writeJSON(h.Log, w, http.StatusCreated, rem)
}

// ListReminders lists the reminder history of a record, newest first.
func (h *InsuranceHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "insurance_id")

	list, err := h.Reminders.History(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Insurance record not found")
		return
	}
	writeJSON(h.Log, w, http.StatusOK, list)
}
