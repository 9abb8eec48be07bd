package models

// ReminderPayload is the asynq task payload for the pre-appointment reminder.
type ReminderPayload struct {
	BookingID   string `json:"bookingId"`
	FirstName   string `json:"firstName"`
	ServiceName string `json:"serviceName"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	Address     string `json:"address"`
	City        string `json:"city"`
}
