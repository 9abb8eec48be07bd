package serviceRepo

import (
	"time"

	"sudzy/models"
)

// defaultCatalog is the launch wash menu. Every package takes a flat $25
// deposit at booking; the balance is charged after the wash.
var defaultCatalog = func() []models.Service {
	now := time.Now()
	return []models.Service{
		{
			ID:              "basic-wash",
			Name:            "Basic Wash",
			Tier:            models.TierBasic,
			Description:     "Exterior wash, wheel cleaning, and drying. Perfect for a quick refresh.",
			Price:           5000,
			DepositAmount:   2500,
			DurationMinutes: 30,
			Features:        []string{"Exterior hand wash", "Wheel cleaning", "Hand dry"},
			DisplayOrder:    1,
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		{
			ID:              "premium-wash",
			Name:            "Premium Wash",
			Tier:            models.TierPremium,
			Description:     "Complete exterior and interior cleaning. Our most popular service.",
			Price:           10000,
			DepositAmount:   2500,
			DurationMinutes: 60,
			Features:        []string{"Everything in Basic", "Interior vacuum", "Window cleaning", "Dash and console wipe-down"},
			DisplayOrder:    2,
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		{
			ID:              "deluxe-wash",
			Name:            "Deluxe Wash",
			Tier:            models.TierDeluxe,
			Description:     "Premium wash with wax protection and deep interior detailing.",
			Price:           15000,
			DepositAmount:   2500,
			DurationMinutes: 90,
			Features:        []string{"Everything in Premium", "Spray wax", "Deep interior detail", "Tire shine"},
			DisplayOrder:    3,
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
	}
}()
