package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/notifycsc/notify-csc/internal/core"
)

type InsuranceRepo struct {
	s *Store
}

func (r *InsuranceRepo) Create(_ context.Context, ins core.Insurance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.insurances[ins.ID]; ok {
		return fmt.Errorf("%w: insurance %s already exists", core.ErrConflict, ins.ID)
	}
	ins.CreatedByName = ""
	r.s.insurances[ins.ID] = ins
	return nil
}

func (r *InsuranceRepo) Find(_ context.Context, f core.InsuranceFilter, opts core.InsuranceListOptions) ([]core.Insurance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := r.match(f)
	sortInsurances(matched, opts.Sort)

	if opts.Skip > 0 {
		if opts.Skip >= int64(len(matched)) {
			return nil, nil
		}
		matched = matched[opts.Skip:]
	}
	if opts.Limit > 0 && opts.Limit < int64(len(matched)) {
		matched = matched[:opts.Limit]
	}
	if opts.Populate {
		for i := range matched {
			matched[i].CreatedByName = r.s.users[matched[i].CreatedBy].Name
		}
	}
	return matched, nil
}

func (r *InsuranceRepo) Count(_ context.Context, f core.InsuranceFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.match(f))), nil
}

func (r *InsuranceRepo) FindOne(_ context.Context, f core.InsuranceFilter, by core.InsuranceSort) (core.Insurance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := r.match(f)
	if len(matched) == 0 {
		return core.Insurance{}, core.ErrInsuranceNotFound
	}
	sortInsurances(matched, by)
	return matched[0], nil
}

func (r *InsuranceRepo) Get(_ context.Context, id string, populate bool) (core.Insurance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ins, ok := r.s.insurances[id]
	if !ok || ins.IsDeleted {
		return core.Insurance{}, core.ErrInsuranceNotFound
	}
	if populate {
		ins.CreatedByName = r.s.users[ins.CreatedBy].Name
	}
	return ins, nil
}

func (r *InsuranceRepo) SoftDelete(_ context.Context, id, userID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ins, ok := r.s.insurances[id]
	if !ok {
		return core.ErrInsuranceNotFound
	}
	ins.IsDeleted = true
	ins.DeletedAt = &at
	ins.DeletedBy = userID
	r.s.insurances[id] = ins
	return nil
}

func (r *InsuranceRepo) Update(_ context.Context, id string, patch core.InsurancePatch, at time.Time) (core.Insurance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ins, ok := r.s.insurances[id]
	if !ok || ins.IsDeleted {
		return core.Insurance{}, core.ErrInsuranceNotFound
	}
	patch.Apply(&ins)
	ins.UpdatedAt = at
	r.s.insurances[id] = ins
	return ins, nil
}

// match must be called with the lock held.
func (r *InsuranceRepo) match(f core.InsuranceFilter) []core.Insurance {
	var out []core.Insurance
	for _, ins := range r.s.insurances {
		if matches(ins, f) {
			out = append(out, ins)
		}
	}
	return out
}

func matches(ins core.Insurance, f core.InsuranceFilter) bool {
	if ins.IsDeleted {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		hit := false
		for _, field := range []string{ins.CustomerName, ins.RegistrationNumber, ins.MobileNumber, string(ins.VehicleType)} {
			if strings.Contains(strings.ToLower(field), q) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if f.RegistrationNumber != "" && ins.RegistrationNumber != f.RegistrationNumber {
		return false
	}
	if f.Mobile != "" && ins.MobileNumber != f.Mobile && ins.AlternateMobileNumber != f.Mobile {
		return false
	}
	for _, rng := range f.ExpiryRanges {
		if !rng.Contains(ins.PolicyExpiryDate) {
			return false
		}
	}
	return true
}

func sortInsurances(list []core.Insurance, by core.InsuranceSort) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch by {
		case core.SortByExpiryDesc:
			if !a.PolicyExpiryDate.Equal(b.PolicyExpiryDate) {
				return a.PolicyExpiryDate.After(b.PolicyExpiryDate)
			}
		case core.SortByCreatedDesc:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		default:
			if !a.PolicyExpiryDate.Equal(b.PolicyExpiryDate) {
				return a.PolicyExpiryDate.Before(b.PolicyExpiryDate)
			}
		}
		return a.ID < b.ID
	})
}
