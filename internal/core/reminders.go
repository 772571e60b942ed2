package core

import (
	"context"
	"fmt"
	"time"
)

type ReminderChannel string

const ReminderChannelSMS ReminderChannel = "SMS"

type ReminderStatus string

const (
	ReminderStatusSent   ReminderStatus = "SENT"
	ReminderStatusFailed ReminderStatus = "FAILED"
)

// reminderWindowDays is the last day before expiry a reminder may be sent from.
const reminderWindowDays = 30

// Reminder is an append-only audit entry for one reminder attempt.
type Reminder struct {
	ID                 string          `json:"id"`
	InsuranceID        string          `json:"insuranceId"`
	CustomerName       string          `json:"customerName"`
	RegistrationNumber string          `json:"registrationNumber"`
	SentBy             string          `json:"sentBy"`
	SentByName         string          `json:"sentByName"`
	Channel            ReminderChannel `json:"channel"`
	Status             ReminderStatus  `json:"status"`
	Message            string          `json:"message"`
	CreatedAt          time.Time       `json:"createdAt"`
}

type ReminderRepo interface {
	Create(ctx context.Context, r Reminder) error
	// ListByInsurance returns entries newest first.
	ListByInsurance(ctx context.Context, insuranceID string) ([]Reminder, error)
}

var (
	ErrReminderExpired  = fmt.Errorf("%w: insurance has already expired", ErrValidation)
	ErrReminderTooEarly = fmt.Errorf("%w: expiry is outside the %d-day reminder window", ErrValidation, reminderWindowDays)
	ErrNoMobileNumber   = fmt.Errorf("%w: insurance record has no mobile number", ErrValidation)
	ErrReminderDelivery = fmt.Errorf("reminder delivery failed")
)
