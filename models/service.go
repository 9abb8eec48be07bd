package models

import (
	"fmt"
	"time"
)

// ServiceTier ranks the wash packages.
type ServiceTier string

const (
	TierBasic   ServiceTier = "basic"
	TierPremium ServiceTier = "premium"
	TierDeluxe  ServiceTier = "deluxe"
)

// Service is one entry in the wash catalog. Prices are cents.
type Service struct {
	ID              string      `bson:"id" json:"id"`
	Name            string      `bson:"name" json:"name"`
	Tier            ServiceTier `bson:"tier" json:"tier"`
	Description     string      `bson:"description" json:"description"`
	Price           int64       `bson:"price" json:"price"`
	DepositAmount   int64       `bson:"deposit_amount" json:"depositAmount"`
	DurationMinutes int         `bson:"duration_minutes" json:"durationMinutes"`
	Features        []string    `bson:"features,omitempty" json:"features,omitempty"`
	Details         string      `bson:"details,omitempty" json:"details,omitempty"`
	DisplayOrder    int         `bson:"display_order" json:"displayOrder"`
	IsActive        bool        `bson:"is_active" json:"isActive"`
	CreatedAt       time.Time   `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time   `bson:"updated_at" json:"updatedAt"`
}

// EndTime computes the "15:04" end time for a wash starting at the given
// "15:04" start time.
func (s *Service) EndTime(startTime string) (string, error) {
	t, err := time.Parse("15:04", startTime)
	if err != nil {
		return "", fmt.Errorf("invalid start time %q: %w", startTime, err)
	}
	return t.Add(time.Duration(s.DurationMinutes) * time.Minute).Format("15:04"), nil
}

// DurationDisplay renders the duration as "1h 30m" style text.
func (s *Service) DurationDisplay() string {
	hours := s.DurationMinutes / 60
	minutes := s.DurationMinutes % 60
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
