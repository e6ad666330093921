package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetPackageEventsQueryIsNotConstructed = errors.New(
	"GetPackageEventsQuery must be created via NewGetPackageEventsQuery constructor",
)

// GetPackageEventsQuery retrieves the audit trail of one package in
// chronological order.
type GetPackageEventsQuery struct { //nolint:recvcheck //using for validation
	packageID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetPackageEventsQuery creates a query for a package's event history.
func NewGetPackageEventsQuery(packageID kernel.UUID) (GetPackageEventsQuery, error) {
	eventsQuery := GetPackageEventsQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := eventsQuery.setPackageID(packageID); err != nil {
		return GetPackageEventsQuery{}, err
	}

	return eventsQuery, nil
}

// Validate ensures the query was created through the constructor.
func (q GetPackageEventsQuery) Validate() error {
	return q.guard.Validate(ErrGetPackageEventsQueryIsNotConstructed)
}

// PackageID returns the package whose history is requested.
func (q GetPackageEventsQuery) PackageID() kernel.UUID {
	return q.packageID
}

func (q *GetPackageEventsQuery) setPackageID(packageID kernel.UUID) error {
	if err := packageID.Validate(); err != nil {
		return err
	}

	q.packageID = packageID
	return nil
}

// GetPackageEventsQueryResponse represents one audit record.
type GetPackageEventsQueryResponse struct {
	ID         kernel.UUID
	Kind       string
	Payload    string
	OccurredAt time.Time
}
