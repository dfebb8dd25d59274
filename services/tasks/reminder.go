package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"admissions/config"
	"admissions/models"
	"admissions/services/calendar"

	"github.com/hibiken/asynq"
)

const TypeConsultationReminder = "reminder:consultation"

// ReminderPayload is the queued reminder task body.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Topic     string `json:"topic"`
}

// Scheduler enqueues consultation reminders.
type Scheduler interface {
	ScheduleConsultationReminder(ctx context.Context, b *models.Booking) error
}

// AsynqScheduler implements Scheduler on the asynq client.
type AsynqScheduler struct {
	client *asynq.Client
	loc    *time.Location
	lead   time.Duration
}

func NewAsynqScheduler(loc *time.Location) *AsynqScheduler {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderDB,
	})
	return &AsynqScheduler{
		client: client,
		loc:    loc,
		lead:   time.Duration(config.AppConfig.ReminderLeadMin) * time.Minute,
	}
}

func (s *AsynqScheduler) ScheduleConsultationReminder(ctx context.Context, b *models.Booking) error {
	startsAt, err := time.ParseInLocation(
		calendar.DateLayout+" "+calendar.SlotLayout, b.Date+" "+b.Time, s.loc)
	if err != nil {
		return fmt.Errorf("bad booking slot %s %s: %w", b.Date, b.Time, err)
	}

	fireAt := startsAt.Add(-s.lead)
	if !fireAt.After(time.Now()) {
		// Too close to the consultation; nothing to remind about.
		return nil
	}

	payload, err := json.Marshal(ReminderPayload{
		BookingID: b.ID,
		UserID:    b.UserID,
		Date:      b.Date,
		Time:      b.Time,
		Topic:     b.Topic,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TypeConsultationReminder, payload)
	if _, err := s.client.EnqueueContext(ctx, task, asynq.ProcessAt(fireAt)); err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	return nil
}

func (s *AsynqScheduler) Close() error {
	return s.client.Close()
}
