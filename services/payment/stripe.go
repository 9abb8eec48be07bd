package payment

import (
	"context"
	"fmt"
	"strconv"

	"sudzy/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

// StripeGateway implements Gateway over the Stripe API. The key is injected
// rather than set on the package-global stripe.Key so tests and multi-tenant
// setups can hold separate clients.
type StripeGateway struct {
	api    *client.API
	logger *zap.Logger
}

// NewStripeGateway builds a gateway bound to the given secret key.
func NewStripeGateway(secretKey string, logger *zap.Logger) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api, logger: logger}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, booking *models.Booking, svc *models.Service) (*IntentResult, error) {
	custParams := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Email:  stripe.String(booking.Email),
		Name:   stripe.String(booking.CustomerName()),
	}
	custParams.AddMetadata("booking_id", booking.ID)
	custParams.AddMetadata("phone", booking.Phone)

	customer, err := g.api.Customers.New(custParams)
	if err != nil {
		return nil, fmt.Errorf("stripe customer create failed for booking %s: %w", booking.ID, err)
	}

	// Manual capture lets us authorize now and capture the deposit on
	// confirmation; setup_future_usage saves the card for the off-session
	// balance charge, which has no authorization expiry window.
	intentParams := &stripe.PaymentIntentParams{
		Params:           stripe.Params{Context: ctx},
		Amount:           stripe.Int64(svc.DepositAmount),
		Currency:         stripe.String(string(stripe.CurrencyUSD)),
		Customer:         stripe.String(customer.ID),
		CaptureMethod:    stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		SetupFutureUsage: stripe.String(string(stripe.PaymentIntentSetupFutureUsageOffSession)),
	}
	intentParams.AddMetadata("booking_id", booking.ID)
	intentParams.AddMetadata("service_name", svc.Name)
	intentParams.AddMetadata("customer_name", booking.CustomerName())
	intentParams.AddMetadata("booking_date", booking.Date)
	intentParams.AddMetadata("booking_time", booking.StartTime)
	intentParams.AddMetadata("deposit_amount", strconv.FormatInt(svc.DepositAmount, 10))
	intentParams.AddMetadata("total_amount", strconv.FormatInt(booking.TotalPrice, 10))

	intent, err := g.api.PaymentIntents.New(intentParams)
	if err != nil {
		return nil, fmt.Errorf("stripe intent create failed for booking %s: %w", booking.ID, err)
	}

	return &IntentResult{
		PaymentIntentID: intent.ID,
		CustomerID:      customer.ID,
		ClientSecret:    intent.ClientSecret,
	}, nil
}

func (g *StripeGateway) CaptureDeposit(ctx context.Context, p *models.Payment) (*CaptureResult, error) {
	params := &stripe.PaymentIntentCaptureParams{
		Params:          stripe.Params{Context: ctx},
		AmountToCapture: stripe.Int64(p.DepositAmount),
	}
	intent, err := g.api.PaymentIntents.Capture(p.StripePaymentIntentID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe deposit capture failed for payment %s: %w", p.ID, err)
	}

	var methodID string
	if intent.PaymentMethod != nil {
		methodID = intent.PaymentMethod.ID
	}
	g.logger.Info("deposit captured",
		zap.String("paymentId", p.ID),
		zap.String("bookingId", p.BookingID),
		zap.String("paymentMethodId", methodID),
	)
	return &CaptureResult{PaymentMethodID: methodID}, nil
}

func (g *StripeGateway) CaptureRemaining(ctx context.Context, p *models.Payment) (*ChargeResult, error) {
	if p.SavedPaymentMethodID == "" {
		return nil, fmt.Errorf("no saved payment method for payment %s; customer must provide payment details", p.ID)
	}

	params := &stripe.PaymentIntentParams{
		Params:        stripe.Params{Context: ctx},
		Amount:        stripe.Int64(p.RemainingAmount),
		Currency:      stripe.String(string(stripe.CurrencyUSD)),
		Customer:      stripe.String(p.StripeCustomerID),
		PaymentMethod: stripe.String(p.SavedPaymentMethodID),
		OffSession:    stripe.Bool(true),
		Confirm:       stripe.Bool(true),
	}
	params.AddMetadata("booking_id", p.BookingID)
	params.AddMetadata("payment_type", "final_payment")

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		if stripeErr, ok := err.(*stripe.Error); ok && stripeErr.Code == stripe.ErrorCodeAuthenticationRequired {
			g.logger.Warn("remaining charge needs customer authentication",
				zap.String("paymentId", p.ID),
				zap.String("bookingId", p.BookingID),
			)
			return &ChargeResult{RequiresAction: true}, fmt.Errorf("remaining charge for payment %s requires customer authentication: %w", p.ID, err)
		}
		return nil, fmt.Errorf("stripe remaining charge failed for payment %s: %w", p.ID, err)
	}

	g.logger.Info("remaining amount charged",
		zap.String("paymentId", p.ID),
		zap.String("bookingId", p.BookingID),
		zap.Int64("amount", p.RemainingAmount),
	)
	return &ChargeResult{
		PaymentIntentID: intent.ID,
		AmountCharged:   p.RemainingAmount,
	}, nil
}

func (g *StripeGateway) RefundDeposit(ctx context.Context, p *models.Payment, reason string) (string, error) {
	params := &stripe.RefundParams{
		Params:        stripe.Params{Context: ctx},
		PaymentIntent: stripe.String(p.StripePaymentIntentID),
		Amount:        stripe.Int64(p.DepositAmount),
		Reason:        stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
	}
	params.AddMetadata("booking_id", p.BookingID)
	params.AddMetadata("refund_reason", reason)

	refund, err := g.api.Refunds.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe deposit refund failed for payment %s: %w", p.ID, err)
	}

	g.logger.Info("deposit refunded",
		zap.String("paymentId", p.ID),
		zap.String("bookingId", p.BookingID),
		zap.String("refundId", refund.ID),
	)
	return refund.ID, nil
}

func (g *StripeGateway) CancelAuthorization(ctx context.Context, p *models.Payment) error {
	params := &stripe.PaymentIntentCancelParams{
		Params: stripe.Params{Context: ctx},
	}
	if _, err := g.api.PaymentIntents.Cancel(p.StripePaymentIntentID, params); err != nil {
		return fmt.Errorf("stripe authorization cancel failed for payment %s: %w", p.ID, err)
	}

	g.logger.Info("authorization cancelled, held funds released",
		zap.String("paymentId", p.ID),
		zap.String("bookingId", p.BookingID),
	)
	return nil
}

func (g *StripeGateway) Status(ctx context.Context, p *models.Payment) (*StatusSnapshot, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	}
	intent, err := g.api.PaymentIntents.Get(p.StripePaymentIntentID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe status fetch failed for payment %s: %w", p.ID, err)
	}

	return &StatusSnapshot{
		StripeStatus:     string(intent.Status),
		Amount:           intent.Amount,
		AmountReceived:   intent.AmountReceived,
		AmountCapturable: intent.AmountCapturable,
	}, nil
}
