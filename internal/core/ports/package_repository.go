package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/pack"
)

// PackageRepository defines the persistence contract for package aggregates.
// An aggregate is stored together with its assignments; loading a package
// always loads the full assignment list.
type PackageRepository interface {
	// Add persists a new package aggregate with its assignments.
	Add(ctx context.Context, aggregate *pack.Package) error

	// Update persists changes to an existing package aggregate, including
	// added assignments and rewritten sequences.
	Update(ctx context.Context, aggregate *pack.Package) error

	// Get retrieves a package aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*pack.Package, error)

	// GetActiveByDriverAndDate retrieves the driver's active package for
	// a service date, or errs.ErrObjectNotFound when there is none.
	GetActiveByDriverAndDate(ctx context.Context, driverID kernel.UUID, date time.Time) (*pack.Package, error)

	// GetDriverIDsWithActivePackages lists the drivers holding an active
	// package on the service date.
	GetDriverIDsWithActivePackages(ctx context.Context, date time.Time) ([]kernel.UUID, error)

	// CountOrdersByDriver reports how many orders each driver carries on
	// the service date, across all of their non-cancelled packages.
	CountOrdersByDriver(ctx context.Context, date time.Time) (map[kernel.UUID]int, error)
}
