package notification

import (
	"context"

	"sudzy/models"

	"go.uber.org/zap"
)

// Dispatcher consumes the domain events emitted by the booking lifecycle and
// turns each into exactly one notification attempt. Failures are logged with
// enough context for a manual resend; they never propagate back into the
// state machine.
type Dispatcher struct {
	Notifier Notifier
	Logger   *zap.Logger
}

func NewDispatcher(notifier Notifier, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{Notifier: notifier, Logger: logger}
}

// Dispatch routes one event to its notification.
func (d *Dispatcher) Dispatch(ctx context.Context, ev models.BookingEvent) {
	var err error
	switch ev.Type {
	case models.EventBookingConfirmed:
		err = d.Notifier.SendBookingConfirmation(ctx, ev.Booking, ev.Payment)
	case models.EventBookingCancelled:
		err = d.Notifier.SendCancellationNotification(ctx, ev.Booking, ev.Payment)
	case models.EventServiceCompleted:
		err = d.Notifier.SendServiceCompletionReceipt(ctx, ev.Booking, ev.Payment)
	case models.EventDepositRefunded:
		err = d.Notifier.SendRefundReceipt(ctx, ev.Booking, ev.Payment)
	case models.EventPaymentFailed:
		// No customer-facing message; the checkout UI surfaces the failure.
		return
	default:
		d.Logger.Warn("unknown booking event", zap.String("type", string(ev.Type)))
		return
	}

	if err != nil {
		fields := []zap.Field{
			zap.String("event", string(ev.Type)),
			zap.String("bookingId", ev.Booking.ID),
			zap.Error(err),
		}
		if ev.Payment != nil {
			fields = append(fields, zap.String("paymentId", ev.Payment.ID))
		}
		d.Logger.Error("notification send failed", fields...)
	}
}
