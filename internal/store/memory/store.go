// Package memory is a process-local store implementing the core repository
// interfaces. It backs DB_TYPE=memory and the service and handler tests.
package memory

import (
	"context"
	"sync"

	"github.com/notifycsc/notify-csc/internal/core"
)

type Store struct {
	mu            sync.RWMutex
	insurances    map[string]core.Insurance
	reminders     []core.Reminder
	users         map[string]core.User
	announcements map[string]core.Announcement
	devices       map[string]core.DeviceToken
}

func New() *Store {
	return &Store{
		insurances:    make(map[string]core.Insurance),
		users:         make(map[string]core.User),
		announcements: make(map[string]core.Announcement),
		devices:       make(map[string]core.DeviceToken),
	}
}

// Ping always succeeds (used by /readyz).
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Insurances() *InsuranceRepo       { return &InsuranceRepo{s: s} }
func (s *Store) Reminders() *ReminderRepo         { return &ReminderRepo{s: s} }
func (s *Store) Users() *UserRepo                 { return &UserRepo{s: s} }
func (s *Store) Announcements() *AnnouncementRepo { return &AnnouncementRepo{s: s} }
func (s *Store) DeviceTokens() *DeviceTokenRepo   { return &DeviceTokenRepo{s: s} }
