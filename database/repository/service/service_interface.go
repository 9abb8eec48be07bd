package serviceRepo

import "sudzy/models"

// ServiceRepository defines data access for the wash catalog.
type ServiceRepository interface {
	GetByID(id string) (*models.Service, error)
	// ListActive returns active services ordered for display.
	ListActive() ([]models.Service, error)
	// Seed inserts the default catalog when the collection is empty.
	Seed() error
}
