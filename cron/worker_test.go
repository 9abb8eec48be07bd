package cron

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"sudzy/models"
	"sudzy/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBookingRepo struct {
	due     map[string][]models.Booking
	dueErr  map[string]error
	queried []string
	byID    map[string]models.Booking
	updated []models.Booking
}

func (r *stubBookingRepo) Create(b *models.Booking) error { return nil }

func (r *stubBookingRepo) GetByID(id string) (*models.Booking, error) {
	b, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := b
	return &cp, nil
}

func (r *stubBookingRepo) Update(b *models.Booking) error {
	r.updated = append(r.updated, *b)
	return nil
}

func (r *stubBookingRepo) FindByDateRange(from, to string, excludeCancelled bool) ([]models.Booking, error) {
	return nil, nil
}

func (r *stubBookingRepo) FindOverlapping(date, startTime, endTime string) ([]models.Booking, error) {
	return nil, nil
}

func (r *stubBookingRepo) FindConfirmedWithoutReminder(date string) ([]models.Booking, error) {
	r.queried = append(r.queried, date)
	if err := r.dueErr[date]; err != nil {
		return nil, err
	}
	return r.due[date], nil
}

type stubScheduler struct {
	scheduled []string
	failFor   string
}

func (s *stubScheduler) Schedule(ctx context.Context, b *models.Booking) error {
	if b.ID == s.failFor {
		return errors.New("queue unavailable")
	}
	s.scheduled = append(s.scheduled, b.ID)
	return nil
}

type stubNotifier struct {
	reminded []string
	sendErr  error
}

func (n *stubNotifier) SendBookingConfirmation(ctx context.Context, b *models.Booking, p *models.Payment) error {
	return nil
}
func (n *stubNotifier) SendCancellationNotification(ctx context.Context, b *models.Booking, p *models.Payment) error {
	return nil
}
func (n *stubNotifier) SendServiceCompletionReceipt(ctx context.Context, b *models.Booking, p *models.Payment) error {
	return nil
}
func (n *stubNotifier) SendRefundReceipt(ctx context.Context, b *models.Booking, p *models.Payment) error {
	return nil
}
func (n *stubNotifier) SendReminder(ctx context.Context, b *models.Booking) error {
	n.reminded = append(n.reminded, b.ID)
	return n.sendErr
}

func resyncDates(loc *time.Location) (string, string) {
	now := time.Now().In(loc)
	return now.Format("2006-01-02"), now.AddDate(0, 0, 1).Format("2006-01-02")
}

func TestResyncRemindersEnqueuesUnreminded(t *testing.T) {
	today, tomorrow := resyncDates(time.UTC)
	repo := &stubBookingRepo{due: map[string][]models.Booking{
		today:    {{ID: "bk-1", Status: models.BookingStatusConfirmed}},
		tomorrow: {{ID: "bk-2", Status: models.BookingStatusConfirmed}},
	}}
	sched := &stubScheduler{}

	ResyncReminders(repo, sched, time.UTC)

	assert.Equal(t, []string{today, tomorrow}, repo.queried)
	assert.Equal(t, []string{"bk-1", "bk-2"}, sched.scheduled)
}

func TestResyncRemindersSurvivesFailures(t *testing.T) {
	today, tomorrow := resyncDates(time.UTC)
	repo := &stubBookingRepo{
		due: map[string][]models.Booking{
			today: {
				{ID: "bk-1", Status: models.BookingStatusConfirmed},
				{ID: "bk-2", Status: models.BookingStatusConfirmed},
			},
			tomorrow: {{ID: "bk-3", Status: models.BookingStatusConfirmed}},
		},
	}
	sched := &stubScheduler{failFor: "bk-1"}

	ResyncReminders(repo, sched, time.UTC)

	// One failed enqueue must not stop the rest of the sweep.
	assert.Equal(t, []string{"bk-2", "bk-3"}, sched.scheduled)
}

func TestResyncRemindersSkipsDateOnRepoError(t *testing.T) {
	today, tomorrow := resyncDates(time.UTC)
	repo := &stubBookingRepo{
		due:    map[string][]models.Booking{tomorrow: {{ID: "bk-2", Status: models.BookingStatusConfirmed}}},
		dueErr: map[string]error{today: errors.New("mongo down")},
	}
	sched := &stubScheduler{}

	ResyncReminders(repo, sched, time.UTC)

	assert.Equal(t, []string{today, tomorrow}, repo.queried)
	assert.Equal(t, []string{"bk-2"}, sched.scheduled)
}

func reminderTask(t *testing.T, bookingID string) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(models.ReminderPayload{BookingID: bookingID})
	require.NoError(t, err)
	return asynq.NewTask(tasks.TypeSendReminder, payload)
}

func TestReminderHandlerSendsAndStamps(t *testing.T) {
	repo := &stubBookingRepo{byID: map[string]models.Booking{
		"bk-1": {ID: "bk-1", Status: models.BookingStatusConfirmed},
	}}
	notifier := &stubNotifier{}
	handler := handleReminderTask(repo, notifier)

	require.NoError(t, handler(context.Background(), reminderTask(t, "bk-1")))

	assert.Equal(t, []string{"bk-1"}, notifier.reminded)
	require.Len(t, repo.updated, 1)
	assert.True(t, repo.updated[0].ReminderSent)
	require.NotNil(t, repo.updated[0].ReminderSentAt)
}

// A booking already reminded, cancelled, or gone is skipped without a send,
// so a duplicate task from the startup resync is harmless.
func TestReminderHandlerSkipsStaleBookings(t *testing.T) {
	repo := &stubBookingRepo{byID: map[string]models.Booking{
		"reminded":  {ID: "reminded", Status: models.BookingStatusConfirmed, ReminderSent: true},
		"cancelled": {ID: "cancelled", Status: models.BookingStatusCancelled},
	}}
	notifier := &stubNotifier{}
	handler := handleReminderTask(repo, notifier)

	for _, id := range []string{"reminded", "cancelled", "missing"} {
		require.NoError(t, handler(context.Background(), reminderTask(t, id)))
	}
	assert.Empty(t, notifier.reminded)
	assert.Empty(t, repo.updated)
}
