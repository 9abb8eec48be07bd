package booking

import (
	"context"

	"sudzy/models"
)

// CreateBookingRequest is the checkout input for a new appointment.
type CreateBookingRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	ServiceID string `json:"serviceId" binding:"required"`
	Date      string `json:"date" binding:"required"`      // "2006-01-02"
	StartTime string `json:"startTime" binding:"required"` // "15:04"
	Address   string `json:"address" binding:"required"`
	City      string `json:"city" binding:"required"`
	ZipCode   string `json:"zipCode" binding:"required"`
}

// CreateBookingResult returns the pending booking plus the client secret the
// frontend needs to collect the deposit.
type CreateBookingResult struct {
	Booking      *models.Booking `json:"booking"`
	Payment      *models.Payment `json:"payment"`
	ClientSecret string          `json:"clientSecret"`
}

// LifecycleService owns booking and payment status transitions. Each
// operation validates the transition against the closed tables in models,
// makes at most one gateway call, persists only after the gateway confirms,
// and emits one domain event on success.
type LifecycleService interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResult, error)

	// ConfirmDeposit is driven by the processor's payment_intent.succeeded
	// webhook: captures the deposit and confirms the booking.
	ConfirmDeposit(ctx context.Context, intentID string) error
	// FailDeposit is driven by payment_intent.payment_failed.
	FailDeposit(ctx context.Context, intentID, reason string) error

	CancelBooking(ctx context.Context, bookingID, reason string) error
	CaptureRemaining(ctx context.Context, paymentID string) error
	RefundDeposit(ctx context.Context, paymentID, reason string) error
	CancelAuthorization(ctx context.Context, paymentID string) error
	MarkNoShow(ctx context.Context, bookingID string) error
	MarkCompleted(ctx context.Context, bookingID string) error

	GetBooking(ctx context.Context, bookingID string) (*models.Booking, *models.Payment, error)
}

// EventSink consumes the domain event emitted after a successful transition.
type EventSink interface {
	Dispatch(ctx context.Context, ev models.BookingEvent)
}

// ReminderScheduler enqueues the deferred pre-appointment reminder.
type ReminderScheduler interface {
	Schedule(ctx context.Context, booking *models.Booking) error
}
