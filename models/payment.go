package models

import "time"

// PaymentStatus is the closed set of payment lifecycle states.
type PaymentStatus string

const (
	PaymentStatusPending         PaymentStatus = "pending"
	PaymentStatusDepositCaptured PaymentStatus = "deposit_captured"
	PaymentStatusFullyCaptured   PaymentStatus = "fully_captured"
	PaymentStatusDepositRefunded PaymentStatus = "deposit_refunded"
	PaymentStatusCancelled       PaymentStatus = "cancelled"
	PaymentStatusFailed          PaymentStatus = "failed"
)

// paymentTransitions lists every legal transition. A payment reaches exactly one
// terminal monetary outcome: fully captured stays capturable only into a refund
// of the deposit; refunded/cancelled/failed are dead ends.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:         {PaymentStatusDepositCaptured, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusDepositCaptured: {PaymentStatusFullyCaptured, PaymentStatusDepositRefunded, PaymentStatusCancelled},
	PaymentStatusFullyCaptured:   {PaymentStatusDepositRefunded},
	PaymentStatusDepositRefunded: {},
	PaymentStatusCancelled:       {},
	PaymentStatusFailed:          {},
}

func (s PaymentStatus) Valid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

func (s PaymentStatus) Terminal() bool {
	next, ok := paymentTransitions[s]
	return ok && len(next) == 0
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Payment tracks the Stripe deposit/authorization/capture flow for one booking.
// A payment is owned by its booking and never outlives it. All amounts are cents.
type Payment struct {
	ID        string `bson:"id" json:"id"`
	BookingID string `bson:"booking_id" json:"bookingId"`

	StripePaymentIntentID string `bson:"stripe_payment_intent_id" json:"stripePaymentIntentId"`
	StripeCustomerID      string `bson:"stripe_customer_id" json:"stripeCustomerId"`
	// Saved at deposit capture; used for the off-session remaining charge.
	SavedPaymentMethodID string `bson:"saved_payment_method_id,omitempty" json:"savedPaymentMethodId,omitempty"`

	TotalAmount     int64 `bson:"total_amount" json:"totalAmount"`
	DepositAmount   int64 `bson:"deposit_amount" json:"depositAmount"`
	RemainingAmount int64 `bson:"remaining_amount" json:"remainingAmount"`

	Status PaymentStatus `bson:"status" json:"status"`

	DepositCapturedAt *time.Time `bson:"deposit_captured_at,omitempty" json:"depositCapturedAt,omitempty"`
	FullyCapturedAt   *time.Time `bson:"fully_captured_at,omitempty" json:"fullyCapturedAt,omitempty"`
	RefundedAt        *time.Time `bson:"refunded_at,omitempty" json:"refundedAt,omitempty"`
	CancelledAt       *time.Time `bson:"cancelled_at,omitempty" json:"cancelledAt,omitempty"`

	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// NewPayment builds a pending payment with the remaining amount derived from
// total minus deposit, keeping the remaining = total - deposit invariant.
func NewPayment(id, bookingID, intentID, customerID string, totalAmount, depositAmount int64) *Payment {
	now := time.Now()
	return &Payment{
		ID:                    id,
		BookingID:             bookingID,
		StripePaymentIntentID: intentID,
		StripeCustomerID:      customerID,
		TotalAmount:           totalAmount,
		DepositAmount:         depositAmount,
		RemainingAmount:       totalAmount - depositAmount,
		Status:                PaymentStatusPending,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// CanCaptureRemaining reports whether the remaining balance may be charged.
func (p *Payment) CanCaptureRemaining() bool {
	return p.Status == PaymentStatusDepositCaptured
}

// CanRefundDeposit reports whether a captured deposit can still be returned.
func (p *Payment) CanRefundDeposit() bool {
	return p.Status == PaymentStatusDepositCaptured || p.Status == PaymentStatusFullyCaptured
}

// CanCancelAuthorization reports whether the hold on remaining funds can be
// released without any further charge.
func (p *Payment) CanCancelAuthorization() bool {
	return p.Status == PaymentStatusDepositCaptured
}
