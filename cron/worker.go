package cron

import (
	"context"
	"encoding/json"
	"fmt"

	"admissions/config"
	"admissions/services/notification"
	"admissions/services/tasks"
	"admissions/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitReminderWorker runs the reminder queue consumer in the background.
func InitReminderWorker(notifier notification.Notifier) {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisReminderDB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeConsultationReminder, handleReminderTask(notifier, logger))

	go func() {
		logger.Info("reminder worker starting")
		if err := srv.Run(mux); err != nil {
			logger.Error("reminder worker stopped", zap.Error(err))
		}
	}()
}

func handleReminderTask(notifier notification.Notifier, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			return err
		}

		text := fmt.Sprintf(
			"Напоминание: консультация приёмной комиссии %s в %s. Тема: %s.",
			p.Date, p.Time, p.Topic)
		if err := notifier.SendMessage(ctx, p.UserID, text); err != nil {
			logger.Warn("reminder delivery failed",
				zap.String("bookingId", p.BookingID), zap.Error(err))
			return err
		}
		return nil
	}
}
