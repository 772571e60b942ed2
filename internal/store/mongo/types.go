package mongo

import (
	"time"

	"github.com/notifycsc/notify-csc/internal/core"
)

const (
	ColInsurances    = "insurances"
	ColReminders     = "reminders"
	ColUsers         = "users"
	ColAnnouncements = "announcements"
	ColDeviceTokens  = "device_tokens"
)

// Insurance
type InsuranceDoc struct {
	ID                    string     `bson:"_id"`
	RegistrationNumber    string     `bson:"registrationNumber"`
	CustomerName          string     `bson:"customerName"`
	MobileNumber          string     `bson:"mobileNumber"`
	AlternateMobileNumber string     `bson:"alternateMobileNumber,omitempty"`
	VehicleType           string     `bson:"vehicleType"`
	InsuranceType         string     `bson:"insuranceType"`
	PolicyStartDate       time.Time  `bson:"policyStartDate"`
	PolicyExpiryDate      time.Time  `bson:"policyExpiryDate"`
	Remarks               string     `bson:"remarks,omitempty"`
	CreatedBy             string     `bson:"createdBy"`
	IsDeleted             bool       `bson:"isDeleted"`
	DeletedAt             *time.Time `bson:"deletedAt,omitempty"`
	DeletedBy             string     `bson:"deletedBy,omitempty"`
	CreatedAt             time.Time  `bson:"createdAt"`
	UpdatedAt             time.Time  `bson:"updatedAt"`
}

func toInsuranceDoc(i core.Insurance) InsuranceDoc {
	return InsuranceDoc{
		ID:                    i.ID,
		RegistrationNumber:    i.RegistrationNumber,
		CustomerName:          i.CustomerName,
		MobileNumber:          i.MobileNumber,
		AlternateMobileNumber: i.AlternateMobileNumber,
		VehicleType:           string(i.VehicleType),
		InsuranceType:         string(i.InsuranceType),
		PolicyStartDate:       i.PolicyStartDate,
		PolicyExpiryDate:      i.PolicyExpiryDate,
		Remarks:               i.Remarks,
		CreatedBy:             i.CreatedBy,
		IsDeleted:             i.IsDeleted,
		DeletedAt:             i.DeletedAt,
		DeletedBy:             i.DeletedBy,
		CreatedAt:             i.CreatedAt,
		UpdatedAt:             i.UpdatedAt,
	}
}

func fromInsuranceDoc(d InsuranceDoc) core.Insurance {
	return core.Insurance{
		ID:                    d.ID,
		RegistrationNumber:    d.RegistrationNumber,
		CustomerName:          d.CustomerName,
		MobileNumber:          d.MobileNumber,
		AlternateMobileNumber: d.AlternateMobileNumber,
		VehicleType:           core.VehicleType(d.VehicleType),
		InsuranceType:         core.InsuranceType(d.InsuranceType),
		PolicyStartDate:       d.PolicyStartDate,
		PolicyExpiryDate:      d.PolicyExpiryDate,
		Remarks:               d.Remarks,
		CreatedBy:             d.CreatedBy,
		IsDeleted:             d.IsDeleted,
		DeletedAt:             d.DeletedAt,
		DeletedBy:             d.DeletedBy,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}
}

// Reminder
type ReminderDoc struct {
	ID                 string    `bson:"_id"`
	InsuranceID        string    `bson:"insuranceId"`
	CustomerName       string    `bson:"customerName"`
	RegistrationNumber string    `bson:"registrationNumber"`
	SentBy             string    `bson:"sentBy"`
	SentByName         string    `bson:"sentByName"`
	Channel            string    `bson:"channel"`
	Status             string    `bson:"status"`
	Message            string    `bson:"message"`
	CreatedAt          time.Time `bson:"createdAt"`
}

func toReminderDoc(r core.Reminder) ReminderDoc {
	return ReminderDoc{
		ID:                 r.ID,
		InsuranceID:        r.InsuranceID,
		CustomerName:       r.CustomerName,
		RegistrationNumber: r.RegistrationNumber,
		SentBy:             r.SentBy,
		SentByName:         r.SentByName,
		Channel:            string(r.Channel),
		Status:             string(r.Status),
		Message:            r.Message,
		CreatedAt:          r.CreatedAt,
	}
}

func fromReminderDoc(d ReminderDoc) core.Reminder {
	return core.Reminder{
		ID:                 d.ID,
		InsuranceID:        d.InsuranceID,
		CustomerName:       d.CustomerName,
		RegistrationNumber: d.RegistrationNumber,
		SentBy:             d.SentBy,
		SentByName:         d.SentByName,
		Channel:            core.ReminderChannel(d.Channel),
		Status:             core.ReminderStatus(d.Status),
		Message:            d.Message,
		CreatedAt:          d.CreatedAt,
	}
}

// User
type UserDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"` // unique index
	PasswordHash string    `bson:"passwordHash"`
	Role         string    `bson:"role"`
	Status       string    `bson:"status"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func toUserDoc(u core.User) UserDoc {
	return UserDoc{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Status:       string(u.Status),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func fromUserDoc(d UserDoc) core.User {
	return core.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         core.Role(d.Role),
		Status:       core.UserStatus(d.Status),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// Announcement
type AnnouncementDoc struct {
	ID         string     `bson:"_id"`
	Title      string     `bson:"title"`
	Content    string     `bson:"content"`
	ImageURL   string     `bson:"imageUrl,omitempty"`
	Published  bool       `bson:"published"`
	PushStatus string     `bson:"pushStatus"`
	PushSent   int        `bson:"pushSent"`
	PushFailed int        `bson:"pushFailed"`
	CreatedBy  string     `bson:"createdBy"`
	IsDeleted  bool       `bson:"isDeleted"`
	DeletedAt  *time.Time `bson:"deletedAt,omitempty"`
	DeletedBy  string     `bson:"deletedBy,omitempty"`
	CreatedAt  time.Time  `bson:"createdAt"`
	UpdatedAt  time.Time  `bson:"updatedAt"`
}

func toAnnouncementDoc(a core.Announcement) AnnouncementDoc {
	return AnnouncementDoc{
		ID:         a.ID,
		Title:      a.Title,
		Content:    a.Content,
		ImageURL:   a.ImageURL,
		Published:  a.Published,
		PushStatus: string(a.PushStatus),
		PushSent:   a.PushSent,
		PushFailed: a.PushFailed,
		CreatedBy:  a.CreatedBy,
		IsDeleted:  a.IsDeleted,
		DeletedAt:  a.DeletedAt,
		DeletedBy:  a.DeletedBy,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func fromAnnouncementDoc(d AnnouncementDoc) core.Announcement {
	return core.Announcement{
		ID:         d.ID,
		Title:      d.Title,
		Content:    d.Content,
		ImageURL:   d.ImageURL,
		Published:  d.Published,
		PushStatus: core.PushStatus(d.PushStatus),
		PushSent:   d.PushSent,
		PushFailed: d.PushFailed,
		CreatedBy:  d.CreatedBy,
		IsDeleted:  d.IsDeleted,
		DeletedAt:  d.DeletedAt,
		DeletedBy:  d.DeletedBy,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// Device token
type DeviceTokenDoc struct {
	Token     string    `bson:"_id"`
	Platform  string    `bson:"platform"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}
