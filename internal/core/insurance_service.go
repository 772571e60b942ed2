package core

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/notifycsc/notify-csc/internal/platform/ids"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	maxPage         = 1_000_000
)

type InsuranceService interface {
	// Add validates and stores a new record owned by userID.
	Add(ctx context.Context, in InsuranceInput, userID string) (Insurance, error)

	// List returns one page of enriched records matching the query facets.
	List(ctx context.Context, q InsuranceQuery) (InsurancePage, error)

	// Get returns a single enriched record.
	Get(ctx context.Context, id string) (InsuranceView, error)

	// DashboardStatistics counts records per expiry bucket.
	DashboardStatistics(ctx context.Context) (DashboardStats, error)

	// SoftDelete hides a record; allowed for its creator or an admin.
	SoftDelete(ctx context.Context, id string, actor Principal) error

	// Update patches a record; admin only.
	Update(ctx context.Context, id string, patch InsurancePatch, actor Principal) (InsuranceView, error)
}

type insuranceService struct {
	insurances InsuranceRepo
	clock      Clock
}

func NewInsuranceService(insurances InsuranceRepo, opts ...Option) InsuranceService {
	o := applyOptions(opts)
	return &insuranceService{
		insurances: insurances,
		clock:      o.clock,
	}
}

func (s *insuranceService) Add(ctx context.Context, in InsuranceInput, userID string) (Insurance, error) {
	in.RegistrationNumber = NormalizeRegistrationNumber(in.RegistrationNumber)
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.MobileNumber = strings.TrimSpace(in.MobileNumber)
	in.AlternateMobileNumber = strings.TrimSpace(in.AlternateMobileNumber)

	if err := in.Validate(); err != nil {
		return Insurance{}, err
	}
	if userID == "" {
		return Insurance{}, fmt.Errorf("%w: missing creator", ErrUnauthorized)
	}

	now := s.clock()
	ins := Insurance{
		ID:                    ids.New(),
		RegistrationNumber:    in.RegistrationNumber,
		CustomerName:          in.CustomerName,
		MobileNumber:          in.MobileNumber,
		AlternateMobileNumber: in.AlternateMobileNumber,
		VehicleType:           in.VehicleType,
		InsuranceType:         in.InsuranceType,
		PolicyStartDate:       in.PolicyStartDate,
		PolicyExpiryDate:      in.PolicyExpiryDate,
		Remarks:               in.Remarks,
		CreatedBy:             userID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := s.insurances.Create(ctx, ins); err != nil {
		return Insurance{}, err
	}
	return ins, nil
}

func (s *insuranceService) List(ctx context.Context, q InsuranceQuery) (InsurancePage, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		return InsurancePage{}, fmt.Errorf("%w: page must not exceed %d", ErrValidation, maxPage)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	now := s.clock()
	filter := InsuranceFilter{}.WithSearch(strings.TrimSpace(q.Search))
	if q.Status != "" {
		if _, err := ParseExpiryStatus(string(q.Status)); err != nil {
			return InsurancePage{}, err
		}
		filter = filter.WithStatus(q.Status, now)
	}
	filter = filter.WithExpiryBetween(q.ExpiryFrom, q.ExpiryTo)

	total, err := s.insurances.Count(ctx, filter)
	if err != nil {
		return InsurancePage{}, err
	}

	records, err := s.insurances.Find(ctx, filter, InsuranceListOptions{
		Sort:     SortByExpiryAsc,
		Skip:     int64(page-1) * int64(limit),
		Limit:    int64(limit),
		Populate: true,
	})
	if err != nil {
		return InsurancePage{}, err
	}

	views := make([]InsuranceView, 0, len(records))
	for _, r := range records {
		views = append(views, newInsuranceView(r, now))
	}

	return InsurancePage{
		Insurances: views,
		Total:      total,
		Page:       page,
		Pages:      int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

func (s *insuranceService) Get(ctx context.Context, id string) (InsuranceView, error) {
	if id == "" {
		return InsuranceView{}, fmt.Errorf("%w: missing insurance ID", ErrValidation)
	}
	ins, err := s.insurances.Get(ctx, id, true)
	if err != nil {
		return InsuranceView{}, err
	}
	return newInsuranceView(ins, s.clock()), nil
}

// DashboardStatistics issues five independent counts concurrently.
func (s *insuranceService) DashboardStatistics(ctx context.Context) (DashboardStats, error) {
	today := StartOfDay(s.clock())
	var stats DashboardStats

	counts := []struct {
		dst    *int64
		filter InsuranceFilter
	}{
		{&stats.TotalActive, InsuranceFilter{}.withRange(DateRange{From: &today})},
		{&stats.TotalExpired, InsuranceFilter{}.WithStatus(StatusExpired, today)},
		{&stats.ExpiringSoon, InsuranceFilter{}.WithStatus(StatusExpiringSoon, today)},
		{&stats.ExpiringWarning, InsuranceFilter{}.WithStatus(StatusExpiringWarning, today)},
		{&stats.ExpiringUpcoming, InsuranceFilter{}.WithStatus(StatusExpiringUpcoming, today)},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range counts {
		g.Go(func() error {
			n, err := s.insurances.Count(gctx, c.filter)
			if err != nil {
				return err
			}
			*c.dst = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return DashboardStats{}, fmt.Errorf("dashboard statistics: %w", err)
	}
	return stats, nil
}

func (s *insuranceService) SoftDelete(ctx context.Context, id string, actor Principal) error {
	ins, err := s.insurances.Get(ctx, id, false)
	if err != nil {
		return err
	}

	if ins.CreatedBy != actor.UserID && !actor.IsAdmin() {
		return fmt.Errorf("%w: only the creator or an admin can delete this record", ErrForbidden)
	}

	return s.insurances.SoftDelete(ctx, id, actor.UserID, s.clock())
}

func (s *insuranceService) Update(ctx context.Context, id string, patch InsurancePatch, actor Principal) (InsuranceView, error) {
	if !actor.IsAdmin() {
		return InsuranceView{}, fmt.Errorf("%w: only admins can update insurance records", ErrForbidden)
	}
	if err := patch.Validate(); err != nil {
		return InsuranceView{}, err
	}
	if patch.RegistrationNumber != nil {
		reg := NormalizeRegistrationNumber(*patch.RegistrationNumber)
		patch.RegistrationNumber = &reg
	}

	now := s.clock()
	updated, err := s.insurances.Update(ctx, id, patch, now)
	if err != nil {
		return InsuranceView{}, err
	}
	return newInsuranceView(updated, now), nil
}
