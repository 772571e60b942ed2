package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/notifycsc/notify-csc/internal/platform/ids"
)

type AnnouncementService interface {
	Create(ctx context.Context, in AnnouncementInput, actor Principal) (Announcement, error)
	Get(ctx context.Context, id string) (Announcement, error)
	List(ctx context.Context, page, limit int) (AnnouncementPage, error)
	ListPublished(ctx context.Context, page, limit int) (AnnouncementPage, error)
	Update(ctx context.Context, id string, patch AnnouncementPatch) (Announcement, error)
	Delete(ctx context.Context, id string, actor Principal) error
	RegisterDevice(ctx context.Context, in DeviceInput) error
}

type announcementService struct {
	announcements AnnouncementRepo
	devices       DeviceTokenRepo
	clock         Clock
}

func NewAnnouncementService(announcements AnnouncementRepo, devices DeviceTokenRepo, opts ...Option) AnnouncementService {
	o := applyOptions(opts)
	return &announcementService{announcements: announcements, devices: devices, clock: o.clock}
}

func (s *announcementService) Create(ctx context.Context, in AnnouncementInput, actor Principal) (Announcement, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := in.Validate(); err != nil {
		return Announcement{}, err
	}

	now := s.clock()
	a := Announcement{
		ID:         ids.New(),
		Title:      in.Title,
		Content:    in.Content,
		ImageURL:   in.ImageURL,
		Published:  in.Published,
		PushStatus: PushStatusNone,
		CreatedBy:  actor.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if in.Notify && in.Published {
		a.PushStatus = PushStatusPending
	}

	if err := s.announcements.Create(ctx, a); err != nil {
		return Announcement{}, err
	}
	return a, nil
}

func (s *announcementService) Get(ctx context.Context, id string) (Announcement, error) {
	if id == "" {
		return Announcement{}, fmt.Errorf("%w: missing announcement ID", ErrValidation)
	}
	return s.announcements.Get(ctx, id)
}

func (s *announcementService) List(ctx context.Context, page, limit int) (AnnouncementPage, error) {
	return s.list(ctx, false, page, limit)
}

func (s *announcementService) ListPublished(ctx context.Context, page, limit int) (AnnouncementPage, error) {
	return s.list(ctx, true, page, limit)
}

func (s *announcementService) list(ctx context.Context, publishedOnly bool, page, limit int) (AnnouncementPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	items, total, err := s.announcements.List(ctx, publishedOnly, int64((page-1)*limit), int64(limit))
	if err != nil {
		return AnnouncementPage{}, err
	}
	if items == nil {
		items = []Announcement{}
	}
	return AnnouncementPage{
		Announcements: items,
		Total:         total,
		Page:          page,
		Pages:         int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

func (s *announcementService) Update(ctx context.Context, id string, patch AnnouncementPatch) (Announcement, error) {
	if err := patch.Validate(); err != nil {
		return Announcement{}, err
	}

	a, err := s.announcements.Get(ctx, id)
	if err != nil {
		return Announcement{}, err
	}

	if patch.Title != nil {
		a.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Content != nil {
		a.Content = *patch.Content
	}
	if patch.ImageURL != nil {
		a.ImageURL = *patch.ImageURL
	}
	if patch.Published != nil {
		a.Published = *patch.Published
	}
	// A push already in flight is left alone.
	if patch.Notify && a.Published && a.PushStatus != PushStatusPending {
		a.PushStatus = PushStatusPending
		a.PushSent, a.PushFailed = 0, 0
	}
	a.UpdatedAt = s.clock()

	if err := s.announcements.Update(ctx, a); err != nil {
		return Announcement{}, err
	}
	return a, nil
}

func (s *announcementService) Delete(ctx context.Context, id string, actor Principal) error {
	if _, err := s.announcements.Get(ctx, id); err != nil {
		return err
	}
	return s.announcements.SoftDelete(ctx, id, actor.UserID, s.clock())
}

func (s *announcementService) RegisterDevice(ctx context.Context, in DeviceInput) error {
	in.Token = strings.TrimSpace(in.Token)
	if err := validateStruct(in); err != nil {
		return err
	}
	if in.Platform == "" {
		in.Platform = "web"
	}
	now := s.clock()
	return s.devices.Upsert(ctx, DeviceToken{
		Token:     in.Token,
		Platform:  in.Platform,
		CreatedAt: now,
		UpdatedAt: now,
	})
}
