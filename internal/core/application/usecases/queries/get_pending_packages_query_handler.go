package queries

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/pack"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetPendingPackagesQueryHandler retrieves driverless packages from the
// database, newest service date first.
type GetPendingPackagesQueryHandler struct {
	db *gorm.DB
}

// NewGetPendingPackagesQueryHandler creates a handler for pending package
// queries.
func NewGetPendingPackagesQueryHandler(db *gorm.DB) GetPendingPackagesQueryHandler {
	return GetPendingPackagesQueryHandler{db: db}
}

// Handle executes the query. Only packages in pending status are returned;
// cancelled driverless packages are history, not actionable work.
func (h GetPendingPackagesQueryHandler) Handle(
	ctx context.Context,
	query GetPendingPackagesQuery,
) ([]GetPendingPackagesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	packages := make([]GetPendingPackagesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			packages.id,
			packages.facility_id,
			packages.service_date,
			COUNT(assignments.id)
		FROM packages
		LEFT JOIN assignments ON assignments.package_id = packages.id
		WHERE packages.driver_id IS NULL AND packages.status = ?
		GROUP BY packages.id, packages.facility_id, packages.service_date
		ORDER BY packages.service_date DESC, packages.id
	`, int(pack.StatusPending)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetPendingPackagesQueryResponse
		var id, facilityID uuid.UUID
		var serviceDate time.Time
		var orderCount int

		if err = rows.Scan(&id, &facilityID, &serviceDate, &orderCount); err != nil {
			return nil, err
		}

		packageID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = packageID

		fID, idErr := kernel.UUIDFromBytes(facilityID[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.FacilityID = fID

		resp.ServiceDate = serviceDate
		resp.OrderCount = orderCount
		packages = append(packages, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return packages, nil
}
