package bookingRepo

import "sudzy/models"

// BookingRepository defines data access for booking records.
type BookingRepository interface {
	Create(booking *models.Booking) error
	GetByID(id string) (*models.Booking, error)
	Update(booking *models.Booking) error
	// FindByDateRange returns bookings whose date falls within [from, to]
	// inclusive. When excludeCancelled is true, cancelled bookings are
	// filtered out so their slots read as free.
	FindByDateRange(from, to string, excludeCancelled bool) ([]models.Booking, error)
	// FindOverlapping returns non-cancelled bookings on the given date whose
	// [start, end) window intersects the given one.
	FindOverlapping(date, startTime, endTime string) ([]models.Booking, error)
	// FindConfirmedWithoutReminder returns confirmed bookings on the given
	// date that have not yet been sent a reminder.
	FindConfirmedWithoutReminder(date string) ([]models.Booking, error)
}
