package core

import (
	"context"
	"fmt"
	"time"
)

type VehicleType string

const (
	VehicleTwoWheeler  VehicleType = "Two Wheeler"
	VehicleFourWheeler VehicleType = "Four Wheeler"
	VehicleGoods       VehicleType = "Goods"
	VehiclePassenger   VehicleType = "Passenger"
)

type InsuranceType string

const (
	InsuranceThirdParty   InsuranceType = "Third Party"
	InsurancePackage      InsuranceType = "Package"
	InsuranceStandaloneOD InsuranceType = "Standalone OD"
)

// ExpiryStatus is the bucket a policy falls into by days until expiry.
// Derived on every read, never stored.
type ExpiryStatus string

const (
	StatusExpired          ExpiryStatus = "EXPIRED"           // < 0 days
	StatusExpiringSoon     ExpiryStatus = "EXPIRING_SOON"     // 0-7
	StatusExpiringWarning  ExpiryStatus = "EXPIRING_WARNING"  // 8-15
	StatusExpiringUpcoming ExpiryStatus = "EXPIRING_UPCOMING" // 16-30
	StatusActive           ExpiryStatus = "ACTIVE"            // > 30
)

// ExpiryStatusForDays buckets a days-remaining value.
func ExpiryStatusForDays(days int) ExpiryStatus {
	switch {
	case days < 0:
		return StatusExpired
	case days <= 7:
		return StatusExpiringSoon
	case days <= 15:
		return StatusExpiringWarning
	case days <= 30:
		return StatusExpiringUpcoming
	default:
		return StatusActive
	}
}

// ParseExpiryStatus accepts the wire form of a status bucket.
func ParseExpiryStatus(s string) (ExpiryStatus, error) {
	switch st := ExpiryStatus(s); st {
	case StatusExpired, StatusExpiringSoon, StatusExpiringWarning, StatusExpiringUpcoming, StatusActive:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
}

// Insurance is a vehicle insurance expiry record.
type Insurance struct {
	ID                    string        `json:"id"`
	RegistrationNumber    string        `json:"registrationNumber"`
	CustomerName          string        `json:"customerName"`
	MobileNumber          string        `json:"mobileNumber"`
	AlternateMobileNumber string        `json:"alternateMobileNumber,omitempty"`
	VehicleType           VehicleType   `json:"vehicleType"`
	InsuranceType         InsuranceType `json:"insuranceType"`
	PolicyStartDate       time.Time     `json:"policyStartDate"`
	PolicyExpiryDate      time.Time     `json:"policyExpiryDate"`
	Remarks               string        `json:"remarks,omitempty"`
	CreatedBy             string        `json:"createdBy"`
	CreatedByName         string        `json:"createdByName,omitempty"` // populated on read
	IsDeleted             bool          `json:"isDeleted"`
	DeletedAt             *time.Time    `json:"deletedAt,omitempty"`
	DeletedBy             string        `json:"deletedBy,omitempty"`
	CreatedAt             time.Time     `json:"createdAt"`
	UpdatedAt             time.Time     `json:"updatedAt"`
}

// InsuranceView is a record enriched with its derived lifecycle fields.
type InsuranceView struct {
	Insurance
	DaysRemaining int          `json:"daysRemaining"`
	ExpiryStatus  ExpiryStatus `json:"expiryStatus"`
}

func newInsuranceView(ins Insurance, now time.Time) InsuranceView {
	days := daysBetween(now, ins.PolicyExpiryDate)
	return InsuranceView{
		Insurance:     ins,
		DaysRemaining: days,
		ExpiryStatus:  ExpiryStatusForDays(days),
	}
}

type InsuranceInput struct {
	RegistrationNumber    string        `json:"registrationNumber" validate:"regno"`
	CustomerName          string        `json:"customerName" validate:"required,max=120"`
	MobileNumber          string        `json:"mobileNumber" validate:"mobile"`
	AlternateMobileNumber string        `json:"alternateMobileNumber" validate:"omitempty,mobile"`
	VehicleType           VehicleType   `json:"vehicleType" validate:"oneof='Two Wheeler' 'Four Wheeler' Goods Passenger"`
	InsuranceType         InsuranceType `json:"insuranceType" validate:"oneof='Third Party' Package 'Standalone OD'"`
	PolicyStartDate       time.Time     `json:"policyStartDate" validate:"required"`
	PolicyExpiryDate      time.Time     `json:"policyExpiryDate" validate:"required"`
	Remarks               string        `json:"remarks" validate:"max=1000"`
}

func (in InsuranceInput) Validate() error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if !in.PolicyStartDate.Before(in.PolicyExpiryDate) {
		return ErrStartAfterExpiry
	}
	return nil
}

// InsurancePatch carries the fields an admin may change; nil means unchanged.
type InsurancePatch struct {
	RegistrationNumber    *string        `json:"registrationNumber,omitempty" validate:"omitempty,regno"`
	CustomerName          *string        `json:"customerName,omitempty" validate:"omitempty,min=1,max=120"`
	MobileNumber          *string        `json:"mobileNumber,omitempty" validate:"omitempty,mobile"`
	AlternateMobileNumber *string        `json:"alternateMobileNumber,omitempty" validate:"omitempty,mobile"`
	VehicleType           *VehicleType   `json:"vehicleType,omitempty" validate:"omitempty,oneof='Two Wheeler' 'Four Wheeler' Goods Passenger"`
	InsuranceType         *InsuranceType `json:"insuranceType,omitempty" validate:"omitempty,oneof='Third Party' Package 'Standalone OD'"`
	PolicyStartDate       *time.Time     `json:"policyStartDate,omitempty"`
	PolicyExpiryDate      *time.Time     `json:"policyExpiryDate,omitempty"`
	Remarks               *string        `json:"remarks,omitempty" validate:"omitempty,max=1000"`
}

// Validate checks field formats and, only when both dates are supplied,
// their order.
func (p InsurancePatch) Validate() error {
	if err := validateStruct(p); err != nil {
		return err
	}
	if p.PolicyStartDate != nil && p.PolicyExpiryDate != nil &&
		!p.PolicyStartDate.Before(*p.PolicyExpiryDate) {
		return ErrStartAfterExpiry
	}
	return nil
}

// Apply copies the set fields onto ins.
func (p InsurancePatch) Apply(ins *Insurance) {
	if p.RegistrationNumber != nil {
		ins.RegistrationNumber = NormalizeRegistrationNumber(*p.RegistrationNumber)
	}
	if p.CustomerName != nil {
		ins.CustomerName = *p.CustomerName
	}
	if p.MobileNumber != nil {
		ins.MobileNumber = *p.MobileNumber
	}
	if p.AlternateMobileNumber != nil {
		ins.AlternateMobileNumber = *p.AlternateMobileNumber
	}
	if p.VehicleType != nil {
		ins.VehicleType = *p.VehicleType
	}
	if p.InsuranceType != nil {
		ins.InsuranceType = *p.InsuranceType
	}
	if p.PolicyStartDate != nil {
		ins.PolicyStartDate = *p.PolicyStartDate
	}
	if p.PolicyExpiryDate != nil {
		ins.PolicyExpiryDate = *p.PolicyExpiryDate
	}
	if p.Remarks != nil {
		ins.Remarks = *p.Remarks
	}
}

// DateRange is a half-open interval [From, Before) on the policy expiry date.
// A nil bound is unbounded.
type DateRange struct {
	From   *time.Time
	Before *time.Time
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.Before != nil && !t.Before(*r.Before) {
		return false
	}
	return true
}

// InsuranceFilter is the query a repository compiles. Every set field must
// hold; every entry of ExpiryRanges must hold, so several facets narrowing
// the expiry date are AND-ed rather than overwriting each other. Soft-deleted
// records never match.
type InsuranceFilter struct {
	// Search is a case-insensitive substring over customer name,
	// registration number, mobile number and vehicle type.
	Search string
	// RegistrationNumber matches the normalized number exactly.
	RegistrationNumber string
	// Mobile matches either the primary or the alternate mobile number.
	Mobile       string
	ExpiryRanges []DateRange
}

// WithSearch sets the free-text facet.
func (f InsuranceFilter) WithSearch(q string) InsuranceFilter {
	f.Search = q
	return f
}

// WithStatus adds the expiry range of a status bucket relative to today.
func (f InsuranceFilter) WithStatus(s ExpiryStatus, today time.Time) InsuranceFilter {
	return f.withRange(StatusRange(s, today))
}

// WithExpiryBetween adds an inclusive calendar-date range; either end may be nil.
func (f InsuranceFilter) WithExpiryBetween(from, to *time.Time) InsuranceFilter {
	if from == nil && to == nil {
		return f
	}
	var r DateRange
	if from != nil {
		start := StartOfDay(*from)
		r.From = &start
	}
	if to != nil {
		end := StartOfDay(*to).AddDate(0, 0, 1)
		r.Before = &end
	}
	return f.withRange(r)
}

func (f InsuranceFilter) withRange(r DateRange) InsuranceFilter {
	ranges := make([]DateRange, 0, len(f.ExpiryRanges)+1)
	ranges = append(ranges, f.ExpiryRanges...)
	f.ExpiryRanges = append(ranges, r)
	return f
}

// StatusRange translates a bucket into expiry dates relative to today's
// midnight. Boundaries match ExpiryStatusForDays.
func StatusRange(s ExpiryStatus, today time.Time) DateRange {
	t := StartOfDay(today)
	day := func(n int) *time.Time {
		d := t.AddDate(0, 0, n)
		return &d
	}
	switch s {
	case StatusExpired:
		return DateRange{Before: day(0)}
	case StatusExpiringSoon:
		return DateRange{From: day(0), Before: day(8)}
	case StatusExpiringWarning:
		return DateRange{From: day(8), Before: day(16)}
	case StatusExpiringUpcoming:
		return DateRange{From: day(16), Before: day(31)}
	default:
		return DateRange{From: day(31)}
	}
}

type InsuranceSort int

const (
	SortByExpiryAsc InsuranceSort = iota
	SortByExpiryDesc
	SortByCreatedDesc
)

type InsuranceListOptions struct {
	Sort     InsuranceSort
	Skip     int64
	Limit    int64 // 0 means no limit
	Populate bool  // resolve CreatedByName
}

type InsuranceRepo interface {
	Create(ctx context.Context, ins Insurance) error
	Find(ctx context.Context, f InsuranceFilter, opts InsuranceListOptions) ([]Insurance, error)
	Count(ctx context.Context, f InsuranceFilter) (int64, error)
	// FindOne returns the first match under sort, or ErrInsuranceNotFound.
	FindOne(ctx context.Context, f InsuranceFilter, sort InsuranceSort) (Insurance, error)
	Get(ctx context.Context, id string, populate bool) (Insurance, error)
	// SoftDelete flags the record; it does not check whether it was already deleted.
	SoftDelete(ctx context.Context, id, userID string, at time.Time) error
	Update(ctx context.Context, id string, patch InsurancePatch, at time.Time) (Insurance, error)
}

// InsuranceQuery is the listing request as received from the API.
type InsuranceQuery struct {
	Status     ExpiryStatus // empty for all
	Search     string
	Page       int
	Limit      int
	ExpiryFrom *time.Time
	ExpiryTo   *time.Time
}

type InsurancePage struct {
	Insurances []InsuranceView `json:"insurances"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Pages      int             `json:"pages"`
}

type DashboardStats struct {
	TotalActive      int64 `json:"totalActive"`
	TotalExpired     int64 `json:"totalExpired"`
	ExpiringSoon     int64 `json:"expiringSoon"`
	ExpiringWarning  int64 `json:"expiringWarning"`
	ExpiringUpcoming int64 `json:"expiringUpcoming"`
}

var (
	ErrInsuranceNotFound = fmt.Errorf("%w: insurance record not found", ErrNotFound)
	ErrStartAfterExpiry  = fmt.Errorf("%w: policy start date must be before expiry date", ErrValidation)
)
