package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	bookingRepo "sudzy/database/repository/booking"
	"sudzy/models"
	"sudzy/services/booking"
	"sudzy/services/notification"
	"sudzy/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitReminderWorker runs the async worker in background.
func InitReminderWorker(bookings bookingRepo.BookingRepository, notifier notification.Notifier) {
	redisOpts := tasks.ReminderQueueOpt()

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(bookings, notifier))

	// Start Redis health monitor
	go monitorRedisConnection(redisOpts)

	// Start async worker with retry logic
	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

// ResyncReminders re-enqueues reminder tasks for confirmed bookings that were
// never reminded, covering today and tomorrow. Run at startup so reminders
// lost with a flushed queue come back; the handler's re-check keeps any
// resulting duplicate tasks from double-sending.
func ResyncReminders(bookings bookingRepo.BookingRepository, scheduler booking.ReminderScheduler, loc *time.Location) {
	now := time.Now().In(loc)
	for _, date := range []string{
		now.Format("2006-01-02"),
		now.AddDate(0, 0, 1).Format("2006-01-02"),
	} {
		due, err := bookings.FindConfirmedWithoutReminder(date)
		if err != nil {
			log.Printf("[ReminderWorker] failed to load unreminded bookings for %s: %v", date, err)
			continue
		}
		for i := range due {
			if err := scheduler.Schedule(context.Background(), &due[i]); err != nil {
				log.Printf("[ReminderWorker] failed to re-enqueue reminder for booking %s: %v", due[i].ID, err)
			}
		}
	}
}

func handleReminderTask(bookings bookingRepo.BookingRepository, notifier notification.Notifier) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] invalid payload: %v", err)
			return err
		}

		// The booking may have been cancelled or already reminded since the
		// task was enqueued; re-check before sending.
		booking, err := bookings.GetByID(p.BookingID)
		if err != nil {
			log.Printf("[ReminderHandler] failed to load booking %s: %v", p.BookingID, err)
			return err
		}
		if booking == nil || booking.Status != models.BookingStatusConfirmed || booking.ReminderSent {
			log.Printf("[ReminderHandler] skipping reminder for booking %s", p.BookingID)
			return nil
		}

		if err := notifier.SendReminder(ctx, booking); err != nil {
			log.Printf("[ReminderHandler] failed to send reminder for booking %s: %v", p.BookingID, err)
			return err
		}

		now := time.Now()
		booking.ReminderSent = true
		booking.ReminderSentAt = &now
		if err := bookings.Update(booking); err != nil {
			log.Printf("[ReminderHandler] failed to mark reminder sent for booking %s: %v", p.BookingID, err)
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection(opts asynq.RedisClientOpt) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ReminderWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
