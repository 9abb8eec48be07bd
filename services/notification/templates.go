package notification

import (
	"fmt"
	"strings"

	"sudzy/models"
)

func dollars(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

func customerConfirmationBody(b *models.Booking, p *models.Payment) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hi %s,\n\n", b.FirstName)
	fmt.Fprintf(&sb, "Your %s is booked!\n\n", b.ServiceName)
	fmt.Fprintf(&sb, "Date: %s\nTime: %s - %s\nLocation: %s, %s %s\n\n",
		b.Date, b.StartTime, b.EndTime, b.Address, b.City, b.ZipCode)
	if p != nil {
		fmt.Fprintf(&sb, "Deposit paid: %s\nBalance due after service: %s\n\n",
			dollars(p.DepositAmount), dollars(p.RemainingAmount))
	}
	sb.WriteString("We'll send a reminder shortly before your appointment.\n")
	return sb.String()
}

func driverAlertBody(b *models.Booking, p *models.Payment) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "New booking #%s\n\n", b.ID)
	fmt.Fprintf(&sb, "Service: %s\nDate: %s\nTime: %s - %s\n",
		b.ServiceName, b.Date, b.StartTime, b.EndTime)
	fmt.Fprintf(&sb, "Customer: %s (%s, %s)\n", b.CustomerName(), b.Email, b.Phone)
	fmt.Fprintf(&sb, "Location: %s, %s %s\n", b.Address, b.City, b.ZipCode)
	if p != nil {
		fmt.Fprintf(&sb, "Balance to collect: %s\n", dollars(p.RemainingAmount))
	}
	return sb.String()
}

func confirmationSMS(b *models.Booking) string {
	return fmt.Sprintf("Sudzy booking confirmed!\nService: %s\nDate: %s\nTime: %s\nLocation: %s, %s\nSee your email for full details.",
		b.ServiceName, b.Date, b.StartTime, b.Address, b.City)
}

func driverAlertSMS(b *models.Booking, p *models.Payment) string {
	balance := "n/a"
	if p != nil {
		balance = dollars(p.RemainingAmount)
	}
	return fmt.Sprintf("NEW BOOKING #%s\nService: %s\nDate: %s %s\nCustomer: %s\nLocation: %s, %s\nBalance to collect: %s",
		b.ID, b.ServiceName, b.Date, b.StartTime, b.CustomerName(), b.Address, b.City, balance)
}

func cancellationBody(b *models.Booking, p *models.Payment) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hi %s,\n\n", b.FirstName)
	fmt.Fprintf(&sb, "Your %s on %s at %s has been cancelled.\n", b.ServiceName, b.Date, b.StartTime)
	if b.CancellationReason != "" {
		fmt.Fprintf(&sb, "Reason: %s\n", b.CancellationReason)
	}
	sb.WriteString("\n")
	switch {
	case p == nil:
		sb.WriteString("No payment was taken for this booking.\n")
	case p.Status == models.PaymentStatusCancelled:
		sb.WriteString("Your payment authorization was released in full. You were not charged.\n")
	case p.Status == models.PaymentStatusDepositRefunded:
		fmt.Fprintf(&sb, "Your deposit of %s has been refunded. Please allow 5-10 business days for it to appear.\n",
			dollars(p.DepositAmount))
	}
	return sb.String()
}

func completionReceiptBody(b *models.Booking, p *models.Payment) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hi %s,\n\n", b.FirstName)
	fmt.Fprintf(&sb, "Thanks for choosing us! Your %s is complete.\n\n", b.ServiceName)
	fmt.Fprintf(&sb, "Deposit: %s\nBalance charged: %s\nTotal paid: %s\n",
		dollars(p.DepositAmount), dollars(p.RemainingAmount), dollars(p.TotalAmount))
	return sb.String()
}

func refundReceiptBody(b *models.Booking, p *models.Payment) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hi %s,\n\n", b.FirstName)
	fmt.Fprintf(&sb, "Your deposit of %s for the %s on %s has been refunded.\n",
		dollars(p.DepositAmount), b.ServiceName, b.Date)
	sb.WriteString("Please allow 5-10 business days for the refund to appear on your statement.\n")
	return sb.String()
}

func reminderBody(b *models.Booking) string {
	return fmt.Sprintf("Hi %s,\n\nYour %s is in about 30 minutes!\nTime: %s\nLocation: %s, %s\n\nSee you soon!\n",
		b.FirstName, b.ServiceName, b.StartTime, b.Address, b.City)
}

func reminderSMS(b *models.Booking) string {
	return fmt.Sprintf("Reminder: your Sudzy appointment is in 30 minutes!\nService: %s\nTime: %s\nLocation: %s, %s\nSee you soon!",
		b.ServiceName, b.StartTime, b.Address, b.City)
}
