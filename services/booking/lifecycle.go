package booking

import (
	"context"
	"fmt"
	"time"

	bookingRepo "sudzy/database/repository/booking"
	paymentRepo "sudzy/database/repository/payment"
	serviceRepo "sudzy/database/repository/service"
	"sudzy/models"
	"sudzy/services/payment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultLifecycleService implements LifecycleService.
type DefaultLifecycleService struct {
	Bookings  bookingRepo.BookingRepository
	Payments  paymentRepo.PaymentRepository
	Services  serviceRepo.ServiceRepository
	Gateway   payment.Gateway
	Events    EventSink
	Reminders ReminderScheduler
	Cache     *AvailabilityCache
	Logger    *zap.Logger
}

func (s *DefaultLifecycleService) emit(ctx context.Context, evType models.BookingEventType, b *models.Booking, p *models.Payment) {
	if s.Events == nil {
		return
	}
	s.Events.Dispatch(ctx, models.BookingEvent{
		Type:       evType,
		Booking:    b,
		Payment:    p,
		OccurredAt: time.Now(),
	})
}

func (s *DefaultLifecycleService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResult, error) {
	svc, err := s.Services.GetByID(req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load service %s: %w", req.ServiceID, err)
	}
	if svc == nil || !svc.IsActive {
		return nil, &NotFoundError{Entity: "service", ID: req.ServiceID}
	}

	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, fmt.Errorf("invalid booking date %q: %w", req.Date, err)
	}
	endTime, err := svc.EndTime(req.StartTime)
	if err != nil {
		return nil, err
	}

	overlapping, err := s.Bookings.FindOverlapping(req.Date, req.StartTime, endTime)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot availability: %w", err)
	}
	if len(overlapping) > 0 {
		return nil, fmt.Errorf("slot %s %s-%s is already booked", req.Date, req.StartTime, endTime)
	}

	now := time.Now()
	b := &models.Booking{
		ID:              uuid.New().String(),
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		ServiceID:       svc.ID,
		ServiceName:     svc.Name,
		DurationMinutes: svc.DurationMinutes,
		TotalPrice:      svc.Price,
		Date:            req.Date,
		StartTime:       req.StartTime,
		EndTime:         endTime,
		Address:         req.Address,
		City:            req.City,
		ZipCode:         req.ZipCode,
		Status:          models.BookingStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Bookings.Create(b); err != nil {
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}
	s.Cache.Bump(ctx)

	intent, err := s.Gateway.CreateIntent(ctx, b, svc)
	if err != nil {
		s.Logger.Error("payment intent creation failed",
			zap.String("bookingId", b.ID), zap.Error(err))
		return nil, &GatewayError{Op: "create_intent", Err: err}
	}

	p := models.NewPayment(uuid.New().String(), b.ID, intent.PaymentIntentID, intent.CustomerID, svc.Price, svc.DepositAmount)
	if err := s.Payments.Create(p); err != nil {
		return nil, fmt.Errorf("failed to persist payment for booking %s: %w", b.ID, err)
	}

	s.Logger.Info("booking created",
		zap.String("bookingId", b.ID),
		zap.String("paymentId", p.ID),
		zap.String("service", svc.Name),
		zap.String("slot", b.Date+" "+b.StartTime),
	)
	return &CreateBookingResult{Booking: b, Payment: p, ClientSecret: intent.ClientSecret}, nil
}

func (s *DefaultLifecycleService) ConfirmDeposit(ctx context.Context, intentID string) error {
	p, err := s.Payments.GetByIntentID(intentID)
	if err != nil {
		return fmt.Errorf("failed to load payment for intent %s: %w", intentID, err)
	}
	if p == nil {
		return &NotFoundError{Entity: "payment", ID: intentID}
	}
	// Webhooks redeliver; a payment already past the deposit stage is done.
	if p.Status == models.PaymentStatusDepositCaptured {
		return nil
	}
	if p.Status != models.PaymentStatusPending {
		return &InvalidStateTransitionError{
			Entity: "payment", ID: p.ID,
			Current: string(p.Status), Required: string(models.PaymentStatusPending),
		}
	}

	capture, err := s.Gateway.CaptureDeposit(ctx, p)
	if err != nil {
		p.Status = models.PaymentStatusFailed
		p.Notes = fmt.Sprintf("Deposit capture failed: %v", err)
		if updErr := s.Payments.Update(p); updErr != nil {
			s.Logger.Error("failed to record deposit capture failure",
				zap.String("paymentId", p.ID), zap.Error(updErr))
		}
		return &GatewayError{Op: "capture_deposit", Err: err}
	}

	now := time.Now()
	p.Status = models.PaymentStatusDepositCaptured
	p.DepositCapturedAt = &now
	p.SavedPaymentMethodID = capture.PaymentMethodID
	if err := s.Payments.Update(p); err != nil {
		return fmt.Errorf("failed to persist deposit capture for payment %s: %w", p.ID, err)
	}

	b, err := s.Bookings.GetByID(p.BookingID)
	if err != nil {
		return fmt.Errorf("failed to load booking %s: %w", p.BookingID, err)
	}
	if b == nil {
		return &NotFoundError{Entity: "booking", ID: p.BookingID}
	}
	if b.Status.CanTransitionTo(models.BookingStatusConfirmed) {
		b.Status = models.BookingStatusConfirmed
		if err := s.Bookings.Update(b); err != nil {
			return fmt.Errorf("failed to confirm booking %s: %w", b.ID, err)
		}
	}

	s.Logger.Info("deposit captured, booking confirmed",
		zap.String("bookingId", b.ID),
		zap.String("paymentId", p.ID),
		zap.Int64("deposit", p.DepositAmount),
	)
	s.emit(ctx, models.EventBookingConfirmed, b, p)

	if s.Reminders != nil {
		if err := s.Reminders.Schedule(ctx, b); err != nil {
			s.Logger.Error("failed to schedule reminder",
				zap.String("bookingId", b.ID), zap.Error(err))
		}
	}
	return nil
}

func (s *DefaultLifecycleService) FailDeposit(ctx context.Context, intentID, reason string) error {
	p, err := s.Payments.GetByIntentID(intentID)
	if err != nil {
		return fmt.Errorf("failed to load payment for intent %s: %w", intentID, err)
	}
	if p == nil {
		return &NotFoundError{Entity: "payment", ID: intentID}
	}
	if p.Status != models.PaymentStatusPending {
		return nil // already resolved
	}

	p.Status = models.PaymentStatusFailed
	p.Notes = fmt.Sprintf("Deposit payment failed: %s", reason)
	if err := s.Payments.Update(p); err != nil {
		return fmt.Errorf("failed to persist payment failure for %s: %w", p.ID, err)
	}

	b, err := s.Bookings.GetByID(p.BookingID)
	if err != nil || b == nil {
		s.Logger.Error("payment failed for missing booking",
			zap.String("paymentId", p.ID), zap.String("bookingId", p.BookingID), zap.Error(err))
		return nil
	}

	s.Logger.Warn("deposit payment failed",
		zap.String("bookingId", b.ID),
		zap.String("paymentId", p.ID),
		zap.String("reason", reason),
	)
	s.emit(ctx, models.EventPaymentFailed, b, p)
	return nil
}

// CancelBooking cancels an appointment and unwinds its payment. With an
// uncaptured authorization the whole hold is released and the deposit
// refunded (customer pays $0); once funds were captured beyond that, only
// the deposit is refunded. The gateway is the source of truth: any gateway
// failure aborts with the booking left untouched.
func (s *DefaultLifecycleService) CancelBooking(ctx context.Context, bookingID, reason string) error {
	b, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}
	if b == nil {
		return &NotFoundError{Entity: "booking", ID: bookingID}
	}
	if !b.Status.CanTransitionTo(models.BookingStatusCancelled) {
		return &InvalidStateTransitionError{
			Entity: "booking", ID: b.ID,
			Current:  string(b.Status),
			Required: "pending or confirmed",
		}
	}

	p, err := s.Payments.GetByBookingID(b.ID)
	if err != nil {
		return fmt.Errorf("failed to load payment for booking %s: %w", b.ID, err)
	}

	if p != nil {
		if err := s.unwindPayment(ctx, p, reason); err != nil {
			return err
		}
	}

	now := time.Now()
	b.Status = models.BookingStatusCancelled
	b.CancelledAt = &now
	b.CancellationReason = reason
	if err := s.Bookings.Update(b); err != nil {
		return fmt.Errorf("failed to persist cancellation of booking %s: %w", b.ID, err)
	}
	s.Cache.Bump(ctx)

	s.Logger.Info("booking cancelled",
		zap.String("bookingId", b.ID),
		zap.String("reason", reason),
	)
	s.emit(ctx, models.EventBookingCancelled, b, p)
	return nil
}

// unwindPayment reverses whatever money movement the payment has seen.
func (s *DefaultLifecycleService) unwindPayment(ctx context.Context, p *models.Payment, reason string) error {
	now := time.Now()
	switch {
	case p.Status == models.PaymentStatusDepositCaptured:
		snap, err := s.Gateway.Status(ctx, p)
		if err != nil {
			s.Logger.Error("gateway status check failed",
				zap.String("paymentId", p.ID), zap.String("bookingId", p.BookingID), zap.Error(err))
			return &GatewayError{Op: "get_payment_status", Err: err}
		}
		if snap.Cancellable() {
			if err := s.Gateway.CancelAuthorization(ctx, p); err != nil {
				s.Logger.Error("authorization cancel failed",
					zap.String("paymentId", p.ID), zap.String("bookingId", p.BookingID), zap.Error(err))
				return &GatewayError{Op: "cancel_authorization", Err: err}
			}
			p.Status = models.PaymentStatusCancelled
			p.CancelledAt = &now
			p.Notes = "Authorization cancelled - funds released, deposit refunded"
		} else {
			if _, err := s.Gateway.RefundDeposit(ctx, p, reason); err != nil {
				s.Logger.Error("deposit refund failed",
					zap.String("paymentId", p.ID), zap.String("bookingId", p.BookingID), zap.Error(err))
				return &GatewayError{Op: "refund_deposit", Err: err}
			}
			p.Status = models.PaymentStatusDepositRefunded
			p.RefundedAt = &now
			p.Notes = fmt.Sprintf("Deposit refunded: %s", reason)
		}
	case p.Status == models.PaymentStatusFullyCaptured:
		if _, err := s.Gateway.RefundDeposit(ctx, p, reason); err != nil {
			s.Logger.Error("deposit refund failed",
				zap.String("paymentId", p.ID), zap.String("bookingId", p.BookingID), zap.Error(err))
			return &GatewayError{Op: "refund_deposit", Err: err}
		}
		p.Status = models.PaymentStatusDepositRefunded
		p.RefundedAt = &now
		p.Notes = fmt.Sprintf("Deposit refunded: %s", reason)
	default:
		// Nothing captured, nothing to unwind.
		return nil
	}
	if err := s.Payments.Update(p); err != nil {
		return fmt.Errorf("failed to persist payment %s after unwind: %w", p.ID, err)
	}
	return nil
}

func (s *DefaultLifecycleService) CaptureRemaining(ctx context.Context, paymentID string) error {
	p, err := s.Payments.GetByID(paymentID)
	if err != nil {
		return fmt.Errorf("failed to load payment %s: %w", paymentID, err)
	}
	if p == nil {
		return &NotFoundError{Entity: "payment", ID: paymentID}
	}
	if !p.CanCaptureRemaining() {
		return &InvalidStateTransitionError{
			Entity: "payment", ID: p.ID,
			Current:  string(p.Status),
			Required: string(models.PaymentStatusDepositCaptured),
		}
	}

	charge, err := s.Gateway.CaptureRemaining(ctx, p)
	if err != nil {
		p.Notes = fmt.Sprintf("Remaining payment failed: %v", err)
		if updErr := s.Payments.Update(p); updErr != nil {
			s.Logger.Error("failed to record remaining charge failure",
				zap.String("paymentId", p.ID), zap.Error(updErr))
		}
		s.Logger.Error("remaining charge failed",
			zap.String("paymentId", p.ID), zap.String("bookingId", p.BookingID), zap.Error(err))
		return &GatewayError{Op: "capture_remaining_amount", Err: err}
	}

	now := time.Now()
	p.Status = models.PaymentStatusFullyCaptured
	p.FullyCapturedAt = &now
	p.Notes = fmt.Sprintf("Remaining $%.2f charged via saved payment method", float64(charge.AmountCharged)/100)
	if err := s.Payments.Update(p); err != nil {
		return fmt.Errorf("failed to persist full capture for payment %s: %w", p.ID, err)
	}

	b, err := s.Bookings.GetByID(p.BookingID)
	if err != nil || b == nil {
		s.Logger.Error("captured remaining for missing booking",
			zap.String("paymentId", p.ID), zap.String("bookingId", p.BookingID), zap.Error(err))
		return nil
	}

	s.Logger.Info("remaining amount captured",
		zap.String("bookingId", b.ID),
		zap.String("paymentId", p.ID),
		zap.Int64("amount", charge.AmountCharged),
	)
	s.emit(ctx, models.EventServiceCompleted, b, p)
	return nil
}

func (s *DefaultLifecycleService) RefundDeposit(ctx context.Context, paymentID, reason string) error {
	p, err := s.Payments.GetByID(paymentID)
	if err != nil {
		return fmt.Errorf("failed to load payment %s: %w", paymentID, err)
	}
	if p == nil {
		return &NotFoundError{Entity: "payment", ID: paymentID}
	}
	if !p.CanRefundDeposit() {
		return &InvalidStateTransitionError{
			Entity: "payment", ID: p.ID,
			Current:  string(p.Status),
			Required: string(models.PaymentStatusDepositCaptured) + " or " + string(models.PaymentStatusFullyCaptured),
		}
	}

	if _, err := s.Gateway.RefundDeposit(ctx, p, reason); err != nil {
		p.Notes = fmt.Sprintf("Refund failed: %v", err)
		if updErr := s.Payments.Update(p); updErr != nil {
			s.Logger.Error("failed to record refund failure",
				zap.String("paymentId", p.ID), zap.Error(updErr))
		}
		return &GatewayError{Op: "refund_deposit", Err: err}
	}

	now := time.Now()
	p.Status = models.PaymentStatusDepositRefunded
	p.RefundedAt = &now
	p.Notes = fmt.Sprintf("Deposit refunded: %s", reason)
	if err := s.Payments.Update(p); err != nil {
		return fmt.Errorf("failed to persist refund for payment %s: %w", p.ID, err)
	}

	b, err := s.Bookings.GetByID(p.BookingID)
	if err != nil || b == nil {
		s.Logger.Error("refunded deposit for missing booking",
			zap.String("paymentId", p.ID), zap.String("bookingId", p.BookingID), zap.Error(err))
		return nil
	}
	s.emit(ctx, models.EventDepositRefunded, b, p)
	return nil
}

func (s *DefaultLifecycleService) CancelAuthorization(ctx context.Context, paymentID string) error {
	p, err := s.Payments.GetByID(paymentID)
	if err != nil {
		return fmt.Errorf("failed to load payment %s: %w", paymentID, err)
	}
	if p == nil {
		return &NotFoundError{Entity: "payment", ID: paymentID}
	}
	if !p.CanCancelAuthorization() {
		return &InvalidStateTransitionError{
			Entity: "payment", ID: p.ID,
			Current:  string(p.Status),
			Required: string(models.PaymentStatusDepositCaptured),
		}
	}

	if err := s.Gateway.CancelAuthorization(ctx, p); err != nil {
		p.Notes = fmt.Sprintf("Cancel authorization failed: %v", err)
		if updErr := s.Payments.Update(p); updErr != nil {
			s.Logger.Error("failed to record authorization cancel failure",
				zap.String("paymentId", p.ID), zap.Error(updErr))
		}
		return &GatewayError{Op: "cancel_authorization", Err: err}
	}

	now := time.Now()
	p.Status = models.PaymentStatusCancelled
	p.CancelledAt = &now
	p.Notes = "Authorization cancelled - funds released"
	if err := s.Payments.Update(p); err != nil {
		return fmt.Errorf("failed to persist authorization cancel for payment %s: %w", p.ID, err)
	}
	return nil
}

// MarkNoShow moves the booking to no_show. The payment is deliberately left
// alone: the deposit is retained and the slot stays blocked.
func (s *DefaultLifecycleService) MarkNoShow(ctx context.Context, bookingID string) error {
	b, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}
	if b == nil {
		return &NotFoundError{Entity: "booking", ID: bookingID}
	}
	if !b.Status.CanTransitionTo(models.BookingStatusNoShow) {
		return &InvalidStateTransitionError{
			Entity: "booking", ID: b.ID,
			Current:  string(b.Status),
			Required: "pending or confirmed",
		}
	}

	b.Status = models.BookingStatusNoShow
	if err := s.Bookings.Update(b); err != nil {
		return fmt.Errorf("failed to persist no-show for booking %s: %w", b.ID, err)
	}
	s.Logger.Info("booking marked no-show, deposit retained", zap.String("bookingId", b.ID))
	return nil
}

func (s *DefaultLifecycleService) MarkCompleted(ctx context.Context, bookingID string) error {
	b, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}
	if b == nil {
		return &NotFoundError{Entity: "booking", ID: bookingID}
	}
	if !b.Status.CanTransitionTo(models.BookingStatusCompleted) {
		return &InvalidStateTransitionError{
			Entity: "booking", ID: b.ID,
			Current:  string(b.Status),
			Required: string(models.BookingStatusConfirmed),
		}
	}

	b.Status = models.BookingStatusCompleted
	if err := s.Bookings.Update(b); err != nil {
		return fmt.Errorf("failed to persist completion for booking %s: %w", b.ID, err)
	}
	s.Logger.Info("booking completed", zap.String("bookingId", b.ID))
	return nil
}

func (s *DefaultLifecycleService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, *models.Payment, error) {
	b, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}
	if b == nil {
		return nil, nil, &NotFoundError{Entity: "booking", ID: bookingID}
	}
	p, err := s.Payments.GetByBookingID(bookingID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load payment for booking %s: %w", bookingID, err)
	}
	return b, p, nil
}
