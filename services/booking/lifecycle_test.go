package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"sudzy/models"
	"sudzy/services/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- in-memory fakes ---

type fakeBookingRepo struct {
	store map[string]models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{store: make(map[string]models.Booking)}
}

func (r *fakeBookingRepo) Create(b *models.Booking) error {
	r.store[b.ID] = *b
	return nil
}

func (r *fakeBookingRepo) GetByID(id string) (*models.Booking, error) {
	b, ok := r.store[id]
	if !ok {
		return nil, nil
	}
	cp := b
	return &cp, nil
}

func (r *fakeBookingRepo) Update(b *models.Booking) error {
	if _, ok := r.store[b.ID]; !ok {
		return errors.New("booking not found")
	}
	r.store[b.ID] = *b
	return nil
}

func (r *fakeBookingRepo) FindByDateRange(from, to string, excludeCancelled bool) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.store {
		if b.Date < from || b.Date > to {
			continue
		}
		if excludeCancelled && b.Status == models.BookingStatusCancelled {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBookingRepo) FindOverlapping(date, startTime, endTime string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.store {
		if b.Date != date || b.Status == models.BookingStatusCancelled {
			continue
		}
		if b.StartTime < endTime && startTime < b.EndTime {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindConfirmedWithoutReminder(date string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.store {
		if b.Date == date && b.Status == models.BookingStatusConfirmed && !b.ReminderSent {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakePaymentRepo struct {
	store map[string]models.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{store: make(map[string]models.Payment)}
}

func (r *fakePaymentRepo) Create(p *models.Payment) error {
	r.store[p.ID] = *p
	return nil
}

func (r *fakePaymentRepo) GetByID(id string) (*models.Payment, error) {
	p, ok := r.store[id]
	if !ok {
		return nil, nil
	}
	cp := p
	return &cp, nil
}

func (r *fakePaymentRepo) GetByBookingID(bookingID string) (*models.Payment, error) {
	for _, p := range r.store {
		if p.BookingID == bookingID {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) GetByIntentID(intentID string) (*models.Payment, error) {
	for _, p := range r.store {
		if p.StripePaymentIntentID == intentID {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) Update(p *models.Payment) error {
	if _, ok := r.store[p.ID]; !ok {
		return errors.New("payment not found")
	}
	r.store[p.ID] = *p
	return nil
}

type fakeServiceRepo struct {
	store map[string]models.Service
}

func (r *fakeServiceRepo) GetByID(id string) (*models.Service, error) {
	s, ok := r.store[id]
	if !ok {
		return nil, nil
	}
	cp := s
	return &cp, nil
}

func (r *fakeServiceRepo) ListActive() ([]models.Service, error) {
	var out []models.Service
	for _, s := range r.store {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeServiceRepo) Seed() error { return nil }

// fakeGateway records every call so tests can assert exactly which processor
// operations ran and in what order.
type fakeGateway struct {
	calls    []string
	failOps  map[string]error
	snapshot payment.StatusSnapshot
	refunded int64
	charged  int64
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{failOps: make(map[string]error)}
}

func (g *fakeGateway) failOn(op string) {
	g.failOps[op] = errors.New("processor unavailable")
}

func (g *fakeGateway) call(op string) error {
	g.calls = append(g.calls, op)
	return g.failOps[op]
}

func (g *fakeGateway) CreateIntent(ctx context.Context, b *models.Booking, svc *models.Service) (*payment.IntentResult, error) {
	if err := g.call("create_intent"); err != nil {
		return nil, err
	}
	return &payment.IntentResult{
		PaymentIntentID: "pi_" + b.ID,
		CustomerID:      "cus_" + b.ID,
		ClientSecret:    "pi_" + b.ID + "_secret",
	}, nil
}

func (g *fakeGateway) CaptureDeposit(ctx context.Context, p *models.Payment) (*payment.CaptureResult, error) {
	if err := g.call("capture_deposit"); err != nil {
		return nil, err
	}
	return &payment.CaptureResult{PaymentMethodID: "pm_test"}, nil
}

func (g *fakeGateway) CaptureRemaining(ctx context.Context, p *models.Payment) (*payment.ChargeResult, error) {
	if err := g.call("capture_remaining_amount"); err != nil {
		return nil, err
	}
	g.charged = p.RemainingAmount
	return &payment.ChargeResult{PaymentIntentID: "pi_final", AmountCharged: p.RemainingAmount}, nil
}

func (g *fakeGateway) RefundDeposit(ctx context.Context, p *models.Payment, reason string) (string, error) {
	if err := g.call("refund_deposit"); err != nil {
		return "", err
	}
	g.refunded = p.DepositAmount
	return "re_test", nil
}

func (g *fakeGateway) CancelAuthorization(ctx context.Context, p *models.Payment) error {
	return g.call("cancel_authorization")
}

func (g *fakeGateway) Status(ctx context.Context, p *models.Payment) (*payment.StatusSnapshot, error) {
	if err := g.call("get_payment_status"); err != nil {
		return nil, err
	}
	snap := g.snapshot
	return &snap, nil
}

type fakeSink struct {
	events []models.BookingEvent
}

func (s *fakeSink) Dispatch(ctx context.Context, ev models.BookingEvent) {
	s.events = append(s.events, ev)
}

func (s *fakeSink) ofType(t models.BookingEventType) int {
	n := 0
	for _, ev := range s.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

type fakeScheduler struct {
	scheduled []string
}

func (f *fakeScheduler) Schedule(ctx context.Context, b *models.Booking) error {
	f.scheduled = append(f.scheduled, b.ID)
	return nil
}

// --- fixtures ---

type fixture struct {
	svc       *DefaultLifecycleService
	bookings  *fakeBookingRepo
	payments  *fakePaymentRepo
	gateway   *fakeGateway
	sink      *fakeSink
	scheduler *fakeScheduler
}

func newFixture() *fixture {
	bookings := newFakeBookingRepo()
	payments := newFakePaymentRepo()
	gateway := newFakeGateway()
	sink := &fakeSink{}
	scheduler := &fakeScheduler{}
	services := &fakeServiceRepo{store: map[string]models.Service{
		"premium-wash": {
			ID: "premium-wash", Name: "Premium Wash", Tier: models.TierPremium,
			Price: 7500, DepositAmount: 2500, DurationMinutes: 60, IsActive: true,
		},
		"retired-wax": {
			ID: "retired-wax", Name: "Retired Wax",
			Price: 4000, DepositAmount: 2500, DurationMinutes: 30, IsActive: false,
		},
	}}
	return &fixture{
		svc: &DefaultLifecycleService{
			Bookings:  bookings,
			Payments:  payments,
			Services:  services,
			Gateway:   gateway,
			Events:    sink,
			Reminders: scheduler,
			Logger:    zap.NewNop(),
		},
		bookings:  bookings,
		payments:  payments,
		gateway:   gateway,
		sink:      sink,
		scheduler: scheduler,
	}
}

func (f *fixture) seedBooking(status models.BookingStatus) *models.Booking {
	b := &models.Booking{
		ID:        "bk-1",
		FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", Phone: "+15550100",
		ServiceID: "premium-wash", ServiceName: "Premium Wash",
		DurationMinutes: 60, TotalPrice: 7500,
		Date: "2026-04-18", StartTime: "10:00", EndTime: "11:00",
		Address: "1 Main St", City: "Springfield", ZipCode: "12345",
		Status: status,
	}
	_ = f.bookings.Create(b)
	return b
}

func (f *fixture) seedPayment(status models.PaymentStatus) *models.Payment {
	p := models.NewPayment("pay-1", "bk-1", "pi_123", "cus_123", 7500, 2500)
	p.Status = status
	if status != models.PaymentStatusPending {
		p.SavedPaymentMethodID = "pm_test"
	}
	_ = f.payments.Create(p)
	return p
}

func validRequest() CreateBookingRequest {
	return CreateBookingRequest{
		FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", Phone: "+15550100",
		ServiceID: "premium-wash",
		Date:      "2026-04-18", StartTime: "10:00",
		Address: "1 Main St", City: "Springfield", ZipCode: "12345",
	}
}

// --- create ---

func TestCreateBooking(t *testing.T) {
	f := newFixture()

	res, err := f.svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusPending, res.Booking.Status)
	assert.Equal(t, "11:00", res.Booking.EndTime)
	assert.Equal(t, int64(7500), res.Booking.TotalPrice)

	assert.Equal(t, models.PaymentStatusPending, res.Payment.Status)
	assert.Equal(t, int64(2500), res.Payment.DepositAmount)
	assert.Equal(t, int64(5000), res.Payment.RemainingAmount)
	assert.NotEmpty(t, res.ClientSecret)

	assert.Equal(t, []string{"create_intent"}, f.gateway.calls)

	stored, err := f.bookings.GetByID(res.Booking.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestCreateBookingRejectsInactiveService(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.ServiceID = "retired-wax"

	_, err := f.svc.CreateBooking(context.Background(), req)
	assert.True(t, IsNotFound(err))
	assert.Empty(t, f.gateway.calls)
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	f := newFixture()
	f.seedBooking(models.BookingStatusConfirmed)

	req := validRequest()
	req.StartTime = "10:30" // intersects the seeded 10:00-11:00 wash
	_, err := f.svc.CreateBooking(context.Background(), req)
	require.Error(t, err)
	assert.Empty(t, f.gateway.calls)
}

func TestCreateBookingAllowsCancelledSlot(t *testing.T) {
	f := newFixture()
	f.seedBooking(models.BookingStatusCancelled)

	_, err := f.svc.CreateBooking(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestCreateBookingGatewayFailure(t *testing.T) {
	f := newFixture()
	f.gateway.failOn("create_intent")

	_, err := f.svc.CreateBooking(context.Background(), validRequest())
	assert.True(t, IsGatewayError(err))
	assert.Empty(t, f.payments.store)
}

// --- deposit capture ---

func TestConfirmDeposit(t *testing.T) {
	f := newFixture()
	f.seedBooking(models.BookingStatusPending)
	f.seedPayment(models.PaymentStatusPending)

	require.NoError(t, f.svc.ConfirmDeposit(context.Background(), "pi_123"))

	p, _ := f.payments.GetByID("pay-1")
	assert.Equal(t, models.PaymentStatusDepositCaptured, p.Status)
	assert.Equal(t, "pm_test", p.SavedPaymentMethodID)
	require.NotNil(t, p.DepositCapturedAt)

	b, _ := f.bookings.GetByID("bk-1")
	assert.Equal(t, models.BookingStatusConfirmed, b.Status)

	assert.Equal(t, 1, f.sink.ofType(models.EventBookingConfirmed))
	assert.Equal(t, []string{"bk-1"}, f.scheduler.scheduled)
}

func TestConfirmDepositIdempotent(t *testing.T) {
	f := newFixture()
	f.seedBooking(models.BookingStatusConfirmed)
	f.seedPayment(models.PaymentStatusDepositCaptured)

	// Webhook redelivery: already captured, nothing happens again.
	require.NoError(t, f.svc.ConfirmDeposit(context.Background(), "pi_123"))
	assert.Empty(t, f.gateway.calls)
	assert.Empty(t, f.sink.events)
}

func TestConfirmDepositCaptureFailure(t *testing.T) {
	f := newFixture()
	f.seedBooking(models.BookingStatusPending)
	f.seedPayment(models.PaymentStatusPending)
	f.gateway.failOn("capture_deposit")

	err := f.svc.ConfirmDeposit(context.Background(), "pi_123")
	assert.True(t, IsGatewayError(err))

	p, _ := f.payments.GetByID("pay-1")
	assert.Equal(t, models.PaymentStatusFailed, p.Status)
	assert.Contains(t, p.Notes, "Deposit capture failed")

	b, _ := f.bookings.GetByID("bk-1")
	assert.Equal(t, models.BookingStatusPending, b.Status)
	assert.Empty(t, f.sink.events)
}

func TestFailDeposit(t *testing.T) {
	f := newFixture()
	f.seedBooking(models.BookingStatusPending)
	f.seedPayment(models.PaymentStatusPending)

	require.NoError(t, f.svc.FailDeposit(context.Background(), "pi_123", "card_declined"))

	p, _ := f.payments.GetByID("pay-1")
	assert.Equal(t, models.PaymentStatusFailed, p.Status)
	// Payment failure gets no customer notification; the event is still emitted.
	assert.Equal(t, 1, f.sink.ofType(models.EventPaymentFailed))
}

// --- remaining capture ---

func TestCaptureRemainingChargesExactRemainder(t *testing.T) {
	f := newFixture()
	f.seedBooking(models.BookingStatusConfirmed)
	f.seedPayment(models.PaymentStatusDepositCaptured)

	require.NoError(t, f.svc.CaptureRemaining(context.Background(), "pay-1"))

	// $75 total, $25 deposit: exactly $50 is charged, never the full amount.
	assert.Equal(t, int64(5000), f.gateway.charged)

	p, _ := f.payments.GetByID("pay-1")
	assert.Equal(t, models.PaymentStatusFullyCaptured, p.Status)
	require.NotNil(t, p.FullyCapturedAt)
	assert.Equal(t, 1, f.sink.ofType(models.EventServiceCompleted))
}

func TestCaptureRemainingRequiresDepositCaptured(t *testing.T) {
	f := newFixture()
	f.seedBooking(models.BookingStatusConfirmed)

	for _, st := range []models.PaymentStatus{
		models.PaymentStatusPending,
		models.PaymentStatusFullyCaptured,
		models.PaymentStatusDepositRefunded,
		models.PaymentStatusCancelled,
	} {
		f.payments.store["pay-1"] = models.Payment{ID: "pay-1", BookingID: "bk-1", Status: st, RemainingAmount: 5000}

		err := f.svc.CaptureRemaining(context.Background(), "pay-1")
		assert.True(t, IsInvalidStateTransition(err), "capture from %s", st)
	}
	// The guard fires before the processor is ever touched.
	assert.Empty(t, f.gateway.calls)
}

func TestCaptureRemainingFailureDoesNotRetry(t *testing.T) {
	f := newFixture()
	f.seedBooking(models.BookingStatusConfirmed)
	f.seedPayment(models.PaymentStatusDepositCaptured)
	f.gateway.failOn("capture_remaining_amount")

	err := f.svc.CaptureRemaining(context.Background(), "pay-1")
	assert.True(t, IsGatewayError(err))
	assert.Equal(t, []string{"capture_remaining_amount"}, f.gateway.calls)

	p, _ := f.payments.GetByID("pay-1")
	assert.Equal(t, models.PaymentStatusDepositCaptured, p.Status, "status must survive a failed charge")
	assert.Contains(t, p.Notes, "Remaining payment failed")
	assert.Empty(t, f.sink.events)
}

// --- cancellation ---

func TestCancelBookingReleasesUncapturedAuthorization(t *testing.T) {
	f := newFixture()
	f.seedBooking(models.BookingStatusConfirmed)
	f.seedPayment(models.PaymentStatusDepositCaptured)
	f.gateway.snapshot = payment.StatusSnapshot{StripeStatus: "requires_capture", AmountCapturable: 7500}

	require.NoError(t, f.svc.CancelBooking(context.Background(), "bk-1", "Customer request"))

	// The whole hold is released: the customer pays nothing.
	assert.Equal(t, []string{"get_payment_status", "cancel_authorization"}, f.gateway.calls)
	assert.Zero(t, f.gateway.refunded)

	p, _ := f.payments.GetByID("pay-1")
	assert.Equal(t, models.PaymentStatusCancelled, p.Status)
	require.NotNil(t, p.CancelledAt)

	b, _ := f.bookings.GetByID("bk-1")
	assert.Equal(t, models.BookingStatusCancelled, b.Status)
	require.NotNil(t, b.CancelledAt)
	assert.Equal(t, "Customer request", b.CancellationReason)

	assert.Equal(t, 1, f.sink.ofType(models.EventBookingCancelled))
	assert.Len(t, f.sink.events, 1)
}

func TestCancelBookingRefundsCapturedDeposit(t *testing.T) {
	f := newFixture()
	f.seedBooking(models.BookingStatusConfirmed)
	f.seedPayment(models.PaymentStatusDepositCaptured)
	f.gateway.snapshot = payment.StatusSnapshot{StripeStatus: "succeeded", AmountReceived: 2500}

	require.NoError(t, f.svc.CancelBooking(context.Background(), "bk-1", "Rain"))

	p, _ := f.payments.GetByID("pay-1")
	assert.Equal(t, models.PaymentStatusDepositRefunded, p.Status)
	assert.Equal(t, int64(2500), f.gateway.refunded)
	assert.Equal(t, []string{"get_payment_status", "refund_deposit"}, f.gateway.calls)
}

func TestCancelBookingFullyCapturedRefundsDepositOnly(t *testing.T) {
	f := newFixture()
	f.seedBooking(models.BookingStatusConfirmed)
	f.seedPayment(models.PaymentStatusFullyCaptured)

	require.NoError(t, f.svc.CancelBooking(context.Background(), "bk-1", "Service issue"))

	// No status probe needed: only the deposit comes back, never the balance.
	assert.Equal(t, []string{"refund_deposit"}, f.gateway.calls)
	assert.Equal(t, int64(2500), f.gateway.refunded)

	p, _ := f.payments.GetByID("pay-1")
	assert.Equal(t, models.PaymentStatusDepositRefunded, p.Status)
	assert.Equal(t, 1, f.sink.ofType(models.EventBookingCancelled))
}

func TestCancelBookingWithoutPayment(t *testing.T) {
	f := newFixture()
	f.seedBooking(models.BookingStatusPending)

	require.NoError(t, f.svc.CancelBooking(context.Background(), "bk-1", "Changed mind"))

	assert.Empty(t, f.gateway.calls, "no payment record means no processor calls")
	b, _ := f.bookings.GetByID("bk-1")
	assert.Equal(t, models.BookingStatusCancelled, b.Status)
	assert.Equal(t, 1, f.sink.ofType(models.EventBookingCancelled))
}

func TestCancelBookingTwice(t *testing.T) {
	f := newFixture()
	f.seedBooking(models.BookingStatusConfirmed)
	f.seedPayment(models.PaymentStatusFullyCaptured)

	require.NoError(t, f.svc.CancelBooking(context.Background(), "bk-1", "First"))
	callsAfterFirst := len(f.gateway.calls)

	err := f.svc.CancelBooking(context.Background(), "bk-1", "Second")
	assert.True(t, IsInvalidStateTransition(err))
	assert.Len(t, f.gateway.calls, callsAfterFirst, "double cancel must not touch the processor")
	assert.Len(t, f.sink.events, 1, "double cancel must not re-notify")
}

func TestCancelBookingFromTerminalStates(t *testing.T) {
	f := newFixture()
	for _, st := range []models.BookingStatus{models.BookingStatusCompleted, models.BookingStatusNoShow} {
		f.bookings.store["bk-1"] = models.Booking{ID: "bk-1", Status: st}

		err := f.svc.CancelBooking(context.Background(), "bk-1", "too late")
		assert.True(t, IsInvalidStateTransition(err), "cancel from %s", st)
	}
	assert.Empty(t, f.gateway.calls)
}

func TestCancelBookingGatewayFailureAborts(t *testing.T) {
	f := newFixture()
	f.seedBooking(models.BookingStatusConfirmed)
	f.seedPayment(models.PaymentStatusFullyCaptured)
	f.gateway.failOn("refund_deposit")

	err := f.svc.CancelBooking(context.Background(), "bk-1", "Rain")
	assert.True(t, IsGatewayError(err))

	// Nothing persisted: booking and payment are exactly as before.
	b, _ := f.bookings.GetByID("bk-1")
	assert.Equal(t, models.BookingStatusConfirmed, b.Status)
	assert.Nil(t, b.CancelledAt)
	p, _ := f.payments.GetByID("pay-1")
	assert.Equal(t, models.PaymentStatusFullyCaptured, p.Status)
	assert.Empty(t, f.sink.events)
}

func TestCancelBookingStatusProbeFailureAborts(t *testing.T) {
	f := newFixture()
	f.seedBooking(models.BookingStatusConfirmed)
	f.seedPayment(models.PaymentStatusDepositCaptured)
	f.gateway.failOn("get_payment_status")

	err := f.svc.CancelBooking(context.Background(), "bk-1", "Rain")
	assert.True(t, IsGatewayError(err))

	b, _ := f.bookings.GetByID("bk-1")
	assert.Equal(t, models.BookingStatusConfirmed, b.Status)
}

// --- refund / authorization release ---

func TestRefundDeposit(t *testing.T) {
	f := newFixture()
	f.seedBooking(models.BookingStatusCompleted)
	f.seedPayment(models.PaymentStatusFullyCaptured)

	require.NoError(t, f.svc.RefundDeposit(context.Background(), "pay-1", "Service issue"))

	p, _ := f.payments.GetByID("pay-1")
	assert.Equal(t, models.PaymentStatusDepositRefunded, p.Status)
	require.NotNil(t, p.RefundedAt)
	assert.Equal(t, int64(2500), f.gateway.refunded)
	assert.Equal(t, 1, f.sink.ofType(models.EventDepositRefunded))
}

func TestRefundDepositTwice(t *testing.T) {
	f := newFixture()
	f.seedBooking(models.BookingStatusCompleted)
	f.seedPayment(models.PaymentStatusFullyCaptured)

	require.NoError(t, f.svc.RefundDeposit(context.Background(), "pay-1", "first"))
	err := f.svc.RefundDeposit(context.Background(), "pay-1", "second")
	assert.True(t, IsInvalidStateTransition(err))
	assert.Equal(t, []string{"refund_deposit"}, f.gateway.calls, "no double refund")
}

func TestCancelAuthorization(t *testing.T) {
	f := newFixture()
	f.seedBooking(models.BookingStatusConfirmed)
	f.seedPayment(models.PaymentStatusDepositCaptured)

	require.NoError(t, f.svc.CancelAuthorization(context.Background(), "pay-1"))

	p, _ := f.payments.GetByID("pay-1")
	assert.Equal(t, models.PaymentStatusCancelled, p.Status)
	require.NotNil(t, p.CancelledAt)
}

func TestCancelAuthorizationRequiresDepositCaptured(t *testing.T) {
	f := newFixture()
	f.seedBooking(models.BookingStatusConfirmed)
	f.seedPayment(models.PaymentStatusFullyCaptured)

	err := f.svc.CancelAuthorization(context.Background(), "pay-1")
	assert.True(t, IsInvalidStateTransition(err))
	assert.Empty(t, f.gateway.calls)
}

// --- no-show / completion ---

func TestMarkNoShowKeepsDeposit(t *testing.T) {
	f := newFixture()
	f.seedBooking(models.BookingStatusConfirmed)
	f.seedPayment(models.PaymentStatusDepositCaptured)

	require.NoError(t, f.svc.MarkNoShow(context.Background(), "bk-1"))

	b, _ := f.bookings.GetByID("bk-1")
	assert.Equal(t, models.BookingStatusNoShow, b.Status)
	assert.True(t, b.BlocksSlot(), "no-show keeps the slot blocked")

	p, _ := f.payments.GetByID("pay-1")
	assert.Equal(t, models.PaymentStatusDepositCaptured, p.Status, "deposit untouched")
	assert.Empty(t, f.gateway.calls)
}

func TestMarkCompleted(t *testing.T) {
	f := newFixture()
	f.seedBooking(models.BookingStatusConfirmed)

	require.NoError(t, f.svc.MarkCompleted(context.Background(), "bk-1"))
	b, _ := f.bookings.GetByID("bk-1")
	assert.Equal(t, models.BookingStatusCompleted, b.Status)

	err := f.svc.MarkCompleted(context.Background(), "bk-1")
	assert.True(t, IsInvalidStateTransition(err))
}

func TestMarkCompletedRequiresConfirmed(t *testing.T) {
	f := newFixture()
	f.seedBooking(models.BookingStatusPending)

	err := f.svc.MarkCompleted(context.Background(), "bk-1")
	assert.True(t, IsInvalidStateTransition(err))
}

func TestGetBookingNotFound(t *testing.T) {
	f := newFixture()
	_, _, err := f.svc.GetBooking(context.Background(), "missing")
	assert.True(t, IsNotFound(err))
}

func TestOperationsTimestampTransitions(t *testing.T) {
	f := newFixture()
	f.seedBooking(models.BookingStatusConfirmed)
	f.seedPayment(models.PaymentStatusDepositCaptured)

	before := time.Now()
	require.NoError(t, f.svc.CancelBooking(context.Background(), "bk-1", "x"))
	b, _ := f.bookings.GetByID("bk-1")
	require.NotNil(t, b.CancelledAt)
	assert.False(t, b.CancelledAt.Before(before))
}
