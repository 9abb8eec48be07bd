package paymentRepo

import "sudzy/models"

// PaymentRepository defines data access for payment records.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByID(id string) (*models.Payment, error)
	// GetByBookingID returns the payment owned by a booking, or nil when the
	// booking never reached checkout.
	GetByBookingID(bookingID string) (*models.Payment, error)
	GetByIntentID(intentID string) (*models.Payment, error)
	Update(payment *models.Payment) error
}
