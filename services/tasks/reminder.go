package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sudzy/config"
	"sudzy/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeSendReminder = "reminder:send"

// ReminderQueueOpt builds the Redis connection for the reminder queue. The
// enqueueing client and the worker both use it so they cannot drift onto
// different databases.
func ReminderQueueOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
}

// reminderLead is how far before the appointment the reminder fires.
const reminderLead = 30 * time.Minute

// NewReminderTask builds the asynq task for a deferred booking reminder.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// AsynqReminderScheduler enqueues reminder tasks on confirmation, scheduled
// for 30 minutes before the appointment start.
type AsynqReminderScheduler struct {
	Client   *asynq.Client
	Location *time.Location
	Logger   *zap.Logger
}

func NewAsynqReminderScheduler(client *asynq.Client, loc *time.Location, logger *zap.Logger) *AsynqReminderScheduler {
	return &AsynqReminderScheduler{Client: client, Location: loc, Logger: logger}
}

func (s *AsynqReminderScheduler) Schedule(ctx context.Context, booking *models.Booking) error {
	start, err := booking.StartDateTime(s.Location)
	if err != nil {
		return err
	}
	fireAt := start.Add(-reminderLead)
	if fireAt.Before(time.Now()) {
		// Too close to the appointment for a reminder to be useful.
		return nil
	}

	payload := models.ReminderPayload{
		BookingID:   booking.ID,
		FirstName:   booking.FirstName,
		ServiceName: booking.ServiceName,
		Date:        booking.Date,
		StartTime:   booking.StartTime,
		Address:     booking.Address,
		City:        booking.City,
	}
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task for booking %s: %w", booking.ID, err)
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder for booking %s: %w", booking.ID, err)
	}

	s.Logger.Info("reminder scheduled",
		zap.String("bookingId", booking.ID),
		zap.Time("fireAt", fireAt),
	)
	return nil
}
