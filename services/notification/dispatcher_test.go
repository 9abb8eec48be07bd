package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"sudzy/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type spyNotifier struct {
	sent    []string
	sendErr error
}

func (s *spyNotifier) record(kind string) error {
	s.sent = append(s.sent, kind)
	return s.sendErr
}

func (s *spyNotifier) SendBookingConfirmation(ctx context.Context, b *models.Booking, p *models.Payment) error {
	return s.record("confirmation")
}

func (s *spyNotifier) SendCancellationNotification(ctx context.Context, b *models.Booking, p *models.Payment) error {
	return s.record("cancellation")
}

func (s *spyNotifier) SendServiceCompletionReceipt(ctx context.Context, b *models.Booking, p *models.Payment) error {
	return s.record("completion")
}

func (s *spyNotifier) SendRefundReceipt(ctx context.Context, b *models.Booking, p *models.Payment) error {
	return s.record("refund")
}

func (s *spyNotifier) SendReminder(ctx context.Context, b *models.Booking) error {
	return s.record("reminder")
}

func event(t models.BookingEventType) models.BookingEvent {
	return models.BookingEvent{
		Type:       t,
		Booking:    &models.Booking{ID: "bk-1", Email: "ada@example.com"},
		Payment:    &models.Payment{ID: "pay-1"},
		OccurredAt: time.Now(),
	}
}

func TestDispatchRoutesEachEventOnce(t *testing.T) {
	cases := []struct {
		ev   models.BookingEventType
		sent string
	}{
		{models.EventBookingConfirmed, "confirmation"},
		{models.EventBookingCancelled, "cancellation"},
		{models.EventServiceCompleted, "completion"},
		{models.EventDepositRefunded, "refund"},
	}
	for _, tc := range cases {
		spy := &spyNotifier{}
		d := NewDispatcher(spy, zap.NewNop())

		d.Dispatch(context.Background(), event(tc.ev))
		assert.Equal(t, []string{tc.sent}, spy.sent, "event %s", tc.ev)
	}
}

func TestDispatchPaymentFailedSendsNothing(t *testing.T) {
	spy := &spyNotifier{}
	d := NewDispatcher(spy, zap.NewNop())

	d.Dispatch(context.Background(), event(models.EventPaymentFailed))
	assert.Empty(t, spy.sent)
}

func TestDispatchUnknownEventSendsNothing(t *testing.T) {
	spy := &spyNotifier{}
	d := NewDispatcher(spy, zap.NewNop())

	d.Dispatch(context.Background(), event(models.BookingEventType("booking_snoozed")))
	assert.Empty(t, spy.sent)
}

func TestDispatchSwallowsSendFailures(t *testing.T) {
	spy := &spyNotifier{sendErr: errors.New("smtp down")}
	d := NewDispatcher(spy, zap.NewNop())

	// Must not panic or propagate: a lost email never unwinds a transition.
	d.Dispatch(context.Background(), event(models.EventBookingCancelled))
	assert.Equal(t, []string{"cancellation"}, spy.sent)
}
