package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/notifycsc/notify-csc/internal/platform/ids"
)

type ReminderService interface {
	// Send delivers an expiry reminder for an insurance inside the 0-30 day
	// window and records the attempt.
	Send(ctx context.Context, insuranceID string, actor Principal) (Reminder, error)

	// History lists reminders sent for an insurance, newest first.
	History(ctx context.Context, insuranceID string) ([]Reminder, error)
}

type reminderService struct {
	insurances InsuranceRepo
	reminders  ReminderRepo
	sms        SMSSender
	log        *slog.Logger
	clock      Clock
}

func NewReminderService(insurances InsuranceRepo, reminders ReminderRepo, sms SMSSender, log *slog.Logger, opts ...Option) ReminderService {
	o := applyOptions(opts)
	return &reminderService{
		insurances: insurances,
		reminders:  reminders,
		sms:        sms,
		log:        log,
		clock:      o.clock,
	}
}

func (s *reminderService) Send(ctx context.Context, insuranceID string, actor Principal) (Reminder, error) {
	ins, err := s.insurances.Get(ctx, insuranceID, false)
	if err != nil {
		return Reminder{}, err
	}

	now := s.clock()
	days := daysBetween(now, ins.PolicyExpiryDate)
	switch {
	case days < 0:
		return Reminder{}, ErrReminderExpired
	case days > reminderWindowDays:
		return Reminder{}, ErrReminderTooEarly
	}
	if ins.MobileNumber == "" {
		return Reminder{}, ErrNoMobileNumber
	}

	r := Reminder{
		ID:                 ids.New(),
		InsuranceID:        ins.ID,
		CustomerName:       ins.CustomerName,
		RegistrationNumber: ins.RegistrationNumber,
		SentBy:             actor.UserID,
		SentByName:         actor.Name,
		Channel:            ReminderChannelSMS,
		Status:             ReminderStatusSent,
		Message:            renderReminder(ins, days),
		CreatedAt:          now,
	}

	sendErr := s.sms.SendSMS(ctx, ins.MobileNumber, r.Message)
	if sendErr != nil {
		r.Status = ReminderStatusFailed
		s.log.WarnContext(ctx, "reminder delivery failed",
			"insurance_id", ins.ID,
			"mobile", MaskMobileNumber(ins.MobileNumber),
			"err", sendErr)
	}

	if err := s.reminders.Create(ctx, r); err != nil {
		return Reminder{}, err
	}
	if sendErr != nil {
		return r, fmt.Errorf("%w: %v", ErrReminderDelivery, sendErr)
	}

	s.log.InfoContext(ctx, "reminder sent",
		"insurance_id", ins.ID,
		"reminder_id", r.ID,
		"days_remaining", days,
		"sent_by", actor.UserID)
	return r, nil
}

func (s *reminderService) History(ctx context.Context, insuranceID string) ([]Reminder, error) {
	if _, err := s.insurances.Get(ctx, insuranceID, false); err != nil {
		return nil, err
	}
	return s.reminders.ListByInsurance(ctx, insuranceID)
}

func renderReminder(ins Insurance, days int) string {
	when := fmt.Sprintf("in %d days", days)
	switch days {
	case 0:
		when = "today"
	case 1:
		when = "tomorrow"
	}
	return fmt.Sprintf(
		"Dear %s, the insurance for your vehicle %s expires %s (%s). Please renew on time to stay covered. - Notify CSC",
		ins.CustomerName, ins.RegistrationNumber, when, ins.PolicyExpiryDate.Format("02 Jan 2006"))
}
