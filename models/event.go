package models

import "time"

// BookingEventType identifies the domain event emitted after a successful
// lifecycle transition. Exactly one event is emitted per transition.
type BookingEventType string

const (
	EventBookingConfirmed BookingEventType = "booking_confirmed"
	EventBookingCancelled BookingEventType = "booking_cancelled"
	EventServiceCompleted BookingEventType = "service_completed"
	EventDepositRefunded  BookingEventType = "deposit_refunded"
	EventPaymentFailed    BookingEventType = "payment_failed"
)

// BookingEvent carries the post-transition state to the notification
// dispatcher. Payment may be nil for bookings that never reached checkout.
type BookingEvent struct {
	Type       BookingEventType `json:"type"`
	Booking    *Booking         `json:"booking"`
	Payment    *Payment         `json:"payment,omitempty"`
	OccurredAt time.Time        `json:"occurredAt"`
}
