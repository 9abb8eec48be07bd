package models

import (
	"fmt"
	"time"
)

// BookingStatus is the closed set of booking lifecycle states.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusNoShow    BookingStatus = "no_show"
)

// bookingTransitions lists every legal transition. Anything not listed is rejected.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled, BookingStatusNoShow},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
	BookingStatusNoShow:    {},
}

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// Terminal reports whether no further transitions are possible from s.
func (s BookingStatus) Terminal() bool {
	next, ok := bookingTransitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether s -> next is a legal transition.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking represents a scheduled car-wash appointment.
type Booking struct {
	ID string `bson:"id" json:"id"`

	// Customer contact details.
	FirstName string `bson:"first_name" json:"firstName"`
	LastName  string `bson:"last_name" json:"lastName"`
	Email     string `bson:"email" json:"email"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`

	// Service snapshot, denormalized at creation so later catalog edits
	// do not change the terms of an existing booking.
	ServiceID       string `bson:"service_id" json:"serviceId"`
	ServiceName     string `bson:"service_name" json:"serviceName"`
	DurationMinutes int    `bson:"duration_minutes" json:"durationMinutes"`
	TotalPrice      int64  `bson:"total_price" json:"totalPrice"` // cents

	// Schedule. Date is "2006-01-02", times are "15:04" local.
	Date      string `bson:"date" json:"date"`
	StartTime string `bson:"start_time" json:"startTime"`
	EndTime   string `bson:"end_time" json:"endTime"`

	// Location the wash crew drives to.
	Address string `bson:"address" json:"address"`
	City    string `bson:"city" json:"city"`
	ZipCode string `bson:"zip_code" json:"zipCode"`

	Status             BookingStatus `bson:"status" json:"status"`
	CancelledAt        *time.Time    `bson:"cancelled_at,omitempty" json:"cancelledAt,omitempty"`
	CancellationReason string        `bson:"cancellation_reason,omitempty" json:"cancellationReason,omitempty"`

	ReminderSent   bool       `bson:"reminder_sent" json:"reminderSent"`
	ReminderSentAt *time.Time `bson:"reminder_sent_at,omitempty" json:"reminderSentAt,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// StartDateTime combines Date and StartTime in the given location.
func (b *Booking) StartDateTime(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", b.Date+" "+b.StartTime, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid booking schedule %q %q: %w", b.Date, b.StartTime, err)
	}
	return t, nil
}

// CustomerName returns the customer's display name.
func (b *Booking) CustomerName() string {
	return b.FirstName + " " + b.LastName
}

// BlocksSlot reports whether this booking occupies its calendar slot.
// Only cancelled bookings release their slot; a no-show keeps it blocked.
func (b *Booking) BlocksSlot() bool {
	return b.Status != BookingStatusCancelled
}
