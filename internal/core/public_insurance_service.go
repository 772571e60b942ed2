package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// MaskedInsurance is everything the public lookup reveals about a record.
type MaskedInsurance struct {
	MaskedVehicleNumber string       `json:"maskedVehicleNumber"`
	InsuranceStatus     PublicStatus `json:"insuranceStatus"`
	DaysToExpiry        *int         `json:"daysToExpiry"`
}

// PublicInsuranceService answers unauthenticated lookups. A nil result with
// a nil error means "no match"; callers must not distinguish it further.
type PublicInsuranceService interface {
	CheckByVehicle(ctx context.Context, registrationNumber string) ([]MaskedInsurance, error)
	CheckByMobile(ctx context.Context, mobile string) ([]MaskedInsurance, error)
}

type publicInsuranceService struct {
	insurances InsuranceRepo
	log        *slog.Logger
	clock      Clock
}

func NewPublicInsuranceService(insurances InsuranceRepo, log *slog.Logger, opts ...Option) PublicInsuranceService {
	o := applyOptions(opts)
	return &publicInsuranceService{
		insurances: insurances,
		log:        log,
		clock:      o.clock,
	}
}

func (s *publicInsuranceService) CheckByVehicle(ctx context.Context, registrationNumber string) ([]MaskedInsurance, error) {
	reg := NormalizeRegistrationNumber(registrationNumber)
	if reg == "" {
		return nil, fmt.Errorf("%w: vehicle number is required", ErrValidation)
	}

	// Duplicates can exist for one vehicle; the latest-expiring one wins.
	ins, err := s.insurances.FindOne(ctx, InsuranceFilter{RegistrationNumber: reg}, SortByExpiryDesc)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	out := []MaskedInsurance{s.mask(ins)}
	s.log.DebugContext(ctx, "public vehicle lookup matched",
		"vehicle", out[0].MaskedVehicleNumber,
		"expiry", MaskExpiryDate(&ins.PolicyExpiryDate))
	return out, nil
}

func (s *publicInsuranceService) CheckByMobile(ctx context.Context, mobile string) ([]MaskedInsurance, error) {
	m := strings.TrimSpace(mobile)
	if !IsValidMobile(m) {
		return nil, fmt.Errorf("%w: mobile number must be 10 digits", ErrValidation)
	}

	records, err := s.insurances.Find(ctx, InsuranceFilter{Mobile: m}, InsuranceListOptions{Sort: SortByExpiryDesc})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	out := make([]MaskedInsurance, 0, len(records))
	for _, r := range records {
		out = append(out, s.mask(r))
	}
	s.log.DebugContext(ctx, "public mobile lookup matched",
		"mobile", MaskMobileNumber(m), "count", len(out))
	return out, nil
}

func (s *publicInsuranceService) mask(ins Insurance) MaskedInsurance {
	now := s.clock()
	return MaskedInsurance{
		MaskedVehicleNumber: MaskVehicleNumber(ins.RegistrationNumber),
		InsuranceStatus:     CalculateInsuranceStatus(&ins.PolicyExpiryDate, now),
		DaysToExpiry:        CalculateDaysToExpiry(&ins.PolicyExpiryDate, now),
	}
}
