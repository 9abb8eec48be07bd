package notification

import (
	"context"
	"fmt"

	"sudzy/models"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// Config carries the notification credentials, injected at construction.
type Config struct {
	MailgunAPIKey     string
	MailgunDomain     string
	FromEmail         string
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string
	DriverEmail       string
	DriverPhone       string
}

// DefaultNotifier sends email through Mailgun and SMS through Twilio.
type DefaultNotifier struct {
	mg     mailgun.Mailgun
	sms    *twilio.RestClient
	cfg    Config
	logger *zap.Logger
}

// NewDefaultNotifier wires up the Mailgun and Twilio clients. Twilio is
// optional: with no account SID configured, SMS sends are skipped.
func NewDefaultNotifier(cfg Config, logger *zap.Logger) *DefaultNotifier {
	n := &DefaultNotifier{
		mg:     mailgun.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey),
		cfg:    cfg,
		logger: logger,
	}
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		n.sms = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
	}
	return n
}

func (n *DefaultNotifier) sendEmail(ctx context.Context, to, subject, body string) error {
	msg := n.mg.NewMessage(n.cfg.FromEmail, subject, body, to)
	if _, _, err := n.mg.Send(ctx, msg); err != nil {
		return fmt.Errorf("mailgun send to %s failed: %w", to, err)
	}
	return nil
}

func (n *DefaultNotifier) sendSMS(to, body string) error {
	if n.sms == nil || to == "" {
		return nil
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(n.cfg.TwilioPhoneNumber)
	params.SetBody(body)
	if _, err := n.sms.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send to %s failed: %w", to, err)
	}
	return nil
}

func (n *DefaultNotifier) SendBookingConfirmation(ctx context.Context, booking *models.Booking, payment *models.Payment) error {
	subject := fmt.Sprintf("Booking Confirmed - %s", booking.ServiceName)
	if err := n.sendEmail(ctx, booking.Email, subject, customerConfirmationBody(booking, payment)); err != nil {
		return err
	}

	if n.cfg.DriverEmail != "" {
		driverSubject := fmt.Sprintf("New Booking Alert - %s at %s", booking.Date, booking.StartTime)
		if err := n.sendEmail(ctx, n.cfg.DriverEmail, driverSubject, driverAlertBody(booking, payment)); err != nil {
			n.logger.Error("driver booking alert email failed",
				zap.String("bookingId", booking.ID), zap.Error(err))
		}
	}

	if err := n.sendSMS(booking.Phone, confirmationSMS(booking)); err != nil {
		n.logger.Error("customer confirmation SMS failed",
			zap.String("bookingId", booking.ID), zap.Error(err))
	}
	if err := n.sendSMS(n.cfg.DriverPhone, driverAlertSMS(booking, payment)); err != nil {
		n.logger.Error("driver alert SMS failed",
			zap.String("bookingId", booking.ID), zap.Error(err))
	}
	return nil
}

func (n *DefaultNotifier) SendCancellationNotification(ctx context.Context, booking *models.Booking, payment *models.Payment) error {
	subject := fmt.Sprintf("Booking Cancelled - %s", booking.ServiceName)
	return n.sendEmail(ctx, booking.Email, subject, cancellationBody(booking, payment))
}

func (n *DefaultNotifier) SendServiceCompletionReceipt(ctx context.Context, booking *models.Booking, payment *models.Payment) error {
	subject := fmt.Sprintf("Receipt - %s", booking.ServiceName)
	return n.sendEmail(ctx, booking.Email, subject, completionReceiptBody(booking, payment))
}

func (n *DefaultNotifier) SendRefundReceipt(ctx context.Context, booking *models.Booking, payment *models.Payment) error {
	subject := fmt.Sprintf("Refund Processed - %s", booking.ServiceName)
	return n.sendEmail(ctx, booking.Email, subject, refundReceiptBody(booking, payment))
}

func (n *DefaultNotifier) SendReminder(ctx context.Context, booking *models.Booking) error {
	subject := fmt.Sprintf("Reminder: your wash is coming up - %s", booking.ServiceName)
	if err := n.sendEmail(ctx, booking.Email, subject, reminderBody(booking)); err != nil {
		return err
	}
	if err := n.sendSMS(booking.Phone, reminderSMS(booking)); err != nil {
		n.logger.Error("reminder SMS failed",
			zap.String("bookingId", booking.ID), zap.Error(err))
	}
	return nil
}
