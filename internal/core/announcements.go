package core

import (
	"context"
	"fmt"
	"time"
)

type PushStatus string

const (
	PushStatusNone    PushStatus = "none"
	PushStatusPending PushStatus = "pending"
	PushStatusSent    PushStatus = "sent"
	PushStatusFailed  PushStatus = "failed"
)

// Announcement is a news item shown on the public site. Published items
// flagged for notification are broadcast to registered devices by the push
// worker.
type Announcement struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	ImageURL   string     `json:"imageUrl,omitempty"`
	Published  bool       `json:"published"`
	PushStatus PushStatus `json:"pushStatus"`
	PushSent   int        `json:"pushSent"`
	PushFailed int        `json:"pushFailed"`
	CreatedBy  string     `json:"createdBy"`
	IsDeleted  bool       `json:"isDeleted"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty"`
	DeletedBy  string     `json:"deletedBy,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type AnnouncementInput struct {
	Title     string `json:"title" validate:"required,max=200"`
	Content   string `json:"content" validate:"required"`
	ImageURL  string `json:"imageUrl" validate:"omitempty,url"`
	Published bool   `json:"published"`
	Notify    bool   `json:"notify"`
}

func (in AnnouncementInput) Validate() error {
	return validateStruct(in)
}

type AnnouncementPatch struct {
	Title     *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content   *string `json:"content,omitempty" validate:"omitempty,min=1"`
	ImageURL  *string `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Published *bool   `json:"published,omitempty"`
	Notify    bool    `json:"notify"`
}

func (p AnnouncementPatch) Validate() error {
	return validateStruct(p)
}

type AnnouncementPage struct {
	Announcements []Announcement `json:"announcements"`
	Total         int64          `json:"total"`
	Page          int            `json:"page"`
	Pages         int            `json:"pages"`
}

type AnnouncementRepo interface {
	Create(ctx context.Context, a Announcement) error
	Get(ctx context.Context, id string) (Announcement, error)
	// List returns non-deleted announcements newest first.
	List(ctx context.Context, publishedOnly bool, skip, limit int64) ([]Announcement, int64, error)
	Update(ctx context.Context, a Announcement) error
	SoftDelete(ctx context.Context, id, userID string, at time.Time) error
	FindPendingPush(ctx context.Context, limit int) ([]Announcement, error)
	UpdatePushResult(ctx context.Context, id string, status PushStatus, sent, failed int, at time.Time) error
}

// DeviceToken is an FCM registration token from the public site.
type DeviceToken struct {
	Token     string    `json:"token"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type DeviceInput struct {
	Token    string `json:"token" validate:"required,max=4096"`
	Platform string `json:"platform" validate:"omitempty,oneof=web android ios"`
}

type DeviceTokenRepo interface {
	Upsert(ctx context.Context, d DeviceToken) error
	AllTokens(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, tokens []string) error
}

var ErrAnnouncementNotFound = fmt.Errorf("%w: announcement not found", ErrNotFound)
