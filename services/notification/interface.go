package notification

import (
	"context"

	"sudzy/models"
)

// Notifier defines the transactional messages the booking lifecycle can
// trigger. Every send is best-effort: callers log failures and move on,
// state transitions are never rolled back over a lost email.
type Notifier interface {
	// SendBookingConfirmation mails the customer and alerts the wash crew,
	// with SMS copies when phone numbers are configured.
	SendBookingConfirmation(ctx context.Context, booking *models.Booking, payment *models.Payment) error
	// SendCancellationNotification tells the customer the booking is off and
	// spells out what happened to their money.
	SendCancellationNotification(ctx context.Context, booking *models.Booking, payment *models.Payment) error
	// SendServiceCompletionReceipt mails the final receipt after the balance
	// is charged.
	SendServiceCompletionReceipt(ctx context.Context, booking *models.Booking, payment *models.Payment) error
	// SendRefundReceipt confirms a deposit refund.
	SendRefundReceipt(ctx context.Context, booking *models.Booking, payment *models.Payment) error
	// SendReminder pings the customer shortly before the appointment.
	SendReminder(ctx context.Context, booking *models.Booking) error
}
