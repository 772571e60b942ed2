package memory

import (
	"context"
	"sort"
	"time"

	"github.com/notifycsc/notify-csc/internal/core"
)

type ReminderRepo struct {
	s *Store
}

func (r *ReminderRepo) Create(_ context.Context, rem core.Reminder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.reminders = append(r.s.reminders, rem)
	return nil
}

func (r *ReminderRepo) ListByInsurance(_ context.Context, insuranceID string) ([]core.Reminder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []core.Reminder{}
	for i := len(r.s.reminders) - 1; i >= 0; i-- {
		if r.s.reminders[i].InsuranceID == insuranceID {
			out = append(out, r.s.reminders[i])
		}
	}
	return out, nil
}

type UserRepo struct {
	s *Store
}

func (r *UserRepo) Create(_ context.Context, u core.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return core.ErrEmailTaken
		}
	}
	r.s.users[u.ID] = u
	return nil
}

func (r *UserRepo) Get(_ context.Context, id string) (core.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return core.User{}, core.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (core.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return core.User{}, core.ErrUserNotFound
}

func (r *UserRepo) List(_ context.Context, f core.UserFilter) ([]core.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []core.User{}
	for _, u := range r.s.users {
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *UserRepo) UpdateStatus(_ context.Context, id string, status core.UserStatus, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return core.ErrUserNotFound
	}
	u.Status = status
	u.UpdatedAt = at
	r.s.users[id] = u
	return nil
}

func (r *UserRepo) Names(_ context.Context, ids []string) (map[string]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	names := make(map[string]string, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			names[id] = u.Name
		}
	}
	return names, nil
}

type AnnouncementRepo struct {
	s *Store
}

func (r *AnnouncementRepo) Create(_ context.Context, a core.Announcement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.announcements[a.ID] = a
	return nil
}

func (r *AnnouncementRepo) Get(_ context.Context, id string) (core.Announcement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.announcements[id]
	if !ok || a.IsDeleted {
		return core.Announcement{}, core.ErrAnnouncementNotFound
	}
	return a, nil
}

func (r *AnnouncementRepo) List(_ context.Context, publishedOnly bool, skip, limit int64) ([]core.Announcement, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var all []core.Announcement
	for _, a := range r.s.announcements {
		if a.IsDeleted || (publishedOnly && !a.Published) {
			continue
		}
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	if skip >= total {
		return []core.Announcement{}, total, nil
	}
	all = all[skip:]
	if limit > 0 && limit < int64(len(all)) {
		all = all[:limit]
	}
	return all, total, nil
}

func (r *AnnouncementRepo) Update(_ context.Context, a core.Announcement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.announcements[a.ID]
	if !ok || cur.IsDeleted {
		return core.ErrAnnouncementNotFound
	}
	r.s.announcements[a.ID] = a
	return nil
}

func (r *AnnouncementRepo) SoftDelete(_ context.Context, id, userID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.announcements[id]
	if !ok {
		return core.ErrAnnouncementNotFound
	}
	a.IsDeleted = true
	a.DeletedAt = &at
	a.DeletedBy = userID
	r.s.announcements[id] = a
	return nil
}

func (r *AnnouncementRepo) FindPendingPush(_ context.Context, limit int) ([]core.Announcement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []core.Announcement
	for _, a := range r.s.announcements {
		if !a.IsDeleted && a.Published && a.PushStatus == core.PushStatusPending {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *AnnouncementRepo) UpdatePushResult(_ context.Context, id string, status core.PushStatus, sent, failed int, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.announcements[id]
	if !ok {
		return core.ErrAnnouncementNotFound
	}
	a.PushStatus = status
	a.PushSent = sent
	a.PushFailed = failed
	a.UpdatedAt = at
	r.s.announcements[id] = a
	return nil
}

type DeviceTokenRepo struct {
	s *Store
}

func (r *DeviceTokenRepo) Upsert(_ context.Context, d core.DeviceToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if cur, ok := r.s.devices[d.Token]; ok {
		d.CreatedAt = cur.CreatedAt
	}
	r.s.devices[d.Token] = d
	return nil
}

func (r *DeviceTokenRepo) AllTokens(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tokens := make([]string, 0, len(r.s.devices))
	for t := range r.s.devices {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	return tokens, nil
}

func (r *DeviceTokenRepo) Delete(_ context.Context, tokens []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range tokens {
		delete(r.s.devices, t)
	}
	return nil
}
