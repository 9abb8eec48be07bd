package payment

import (
	"context"

	"sudzy/models"
)

// IntentResult is returned after creating the deposit PaymentIntent.
type IntentResult struct {
	PaymentIntentID string
	CustomerID      string
	ClientSecret    string
}

// CaptureResult carries the payment method saved during deposit capture.
type CaptureResult struct {
	PaymentMethodID string
}

// ChargeResult describes the outcome of an off-session remaining charge.
type ChargeResult struct {
	PaymentIntentID string
	AmountCharged   int64
	// RequiresAction is set when the card demands customer authentication;
	// the charge did not go through and the operator must involve the customer.
	RequiresAction bool
}

// StatusSnapshot mirrors the processor's view of a payment intent.
type StatusSnapshot struct {
	StripeStatus     string
	Amount           int64
	AmountReceived   int64
	AmountCapturable int64
}

// Cancellable reports whether the authorization can still be voided, which
// is the case while the intent sits uncaptured awaiting manual capture.
func (s *StatusSnapshot) Cancellable() bool {
	return s.StripeStatus == "requires_capture"
}

// Gateway wraps the payment processor's authorize/capture/refund primitives.
// Every operation is keyed by the payment record and safe to re-invoke.
type Gateway interface {
	// CreateIntent opens a manual-capture deposit intent that also saves the
	// payment method for a later off-session balance charge.
	CreateIntent(ctx context.Context, booking *models.Booking, svc *models.Service) (*IntentResult, error)
	// CaptureDeposit captures exactly the deposit amount on the intent.
	CaptureDeposit(ctx context.Context, p *models.Payment) (*CaptureResult, error)
	// CaptureRemaining charges the remaining balance against the saved method.
	CaptureRemaining(ctx context.Context, p *models.Payment) (*ChargeResult, error)
	// RefundDeposit returns the deposit amount; the refund id is returned.
	RefundDeposit(ctx context.Context, p *models.Payment, reason string) (string, error)
	// CancelAuthorization voids the intent, releasing any held funds.
	CancelAuthorization(ctx context.Context, p *models.Payment) error
	// Status fetches the processor's current view of the intent.
	Status(ctx context.Context, p *models.Payment) (*StatusSnapshot, error)
}
