package ports

import (
	"context"

	"dispatch/internal/core/domain/model/facility"
	"dispatch/internal/core/domain/model/kernel"
)

// FacilityRepository defines the persistence contract for facility aggregates.
type FacilityRepository interface {
	// Add persists a new facility aggregate to storage.
	Add(ctx context.Context, aggregate *facility.Facility) error

	// Update persists changes to an existing facility aggregate.
	Update(ctx context.Context, aggregate *facility.Facility) error

	// Get retrieves a facility aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*facility.Facility, error)

	// GetAllActive retrieves all facilities accepting new orders.
	GetAllActive(ctx context.Context) ([]*facility.Facility, error)
}
