// Package queries contains read-only operations for the dispatch engine's
// read model. Query handlers bypass the domain layer and read the database
// directly, following the CQRS pattern.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetPendingPackagesQueryIsNotConstructed = errors.New(
	"GetPendingPackagesQuery must be created via NewGetPendingPackagesQuery constructor",
)

// GetPendingPackagesQuery retrieves all driverless packages. The
// administrative UI shows these with an "unassigned" badge so operators can
// chase down driver coverage.
type GetPendingPackagesQuery struct {
	guard guard.ConstructorGuard
}

// NewGetPendingPackagesQuery creates a query for driverless packages.
func NewGetPendingPackagesQuery() GetPendingPackagesQuery {
	return GetPendingPackagesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetPendingPackagesQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingPackagesQueryIsNotConstructed)
}

// GetPendingPackagesQueryResponse represents one driverless package.
type GetPendingPackagesQueryResponse struct {
	ID          kernel.UUID
	FacilityID  kernel.UUID
	ServiceDate time.Time
	OrderCount  int
}
