package packagerepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/pack"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// activeStatuses are the package statuses the uniqueness constraints and
// busy-driver queries consider live.
var activeStatuses = []int{
	int(pack.StatusPending),
	int(pack.StatusAssigned),
	int(pack.StatusInProgress),
}

// GormPackageRepository implements PackageRepository using GORM.
type GormPackageRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormPackageRepository creates a new GORM package repository.
func NewGormPackageRepository(db *gorm.DB, tracker aggregateTracker) *GormPackageRepository {
	return &GormPackageRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new package and its assignments to the database. A uniqueness
// violation on either the driver booking or an order claim comes back as
// ports.ErrConflict.
func (r *GormPackageRepository) Add(ctx context.Context, aggregate *pack.Package) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("package %s: %w", aggregate.ID(), ports.ErrConflict)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing package, upserting its assignments and the
// rewritten sequence numbers.
func (r *GormPackageRepository) Update(ctx context.Context, aggregate *pack.Package) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	// Session with FullSaveAssociations keeps the assignment rows in step.
	result := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(&dto)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("package %s: %w", aggregate.ID(), ports.ErrConflict)
		}
		return result.Error
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a package by ID with its assignments.
func (r *GormPackageRepository) Get(ctx context.Context, id kernel.UUID) (*pack.Package, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PackageDTO
	if err := r.db.WithContext(ctx).Preload("Assignments").First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("package", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByDriverAndDate retrieves the driver's live package for a
// service date.
func (r *GormPackageRepository) GetActiveByDriverAndDate(ctx context.Context, driverID kernel.UUID, date time.Time) (*pack.Package, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dto PackageDTO
	err := r.db.WithContext(ctx).
		Preload("Assignments").
		Where("driver_id = ? AND service_date = ? AND status IN ?", driverID.Bytes(), date, activeStatuses).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("package", driverID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetDriverIDsWithActivePackages lists the drivers holding a live package
// on the service date.
func (r *GormPackageRepository) GetDriverIDsWithActivePackages(ctx context.Context, date time.Time) ([]kernel.UUID, error) {
	var rawIDs []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&PackageDTO{}).
		Distinct("driver_id").
		Where("driver_id IS NOT NULL AND service_date = ? AND status IN ?", date, activeStatuses).
		Pluck("driver_id", &rawIDs).Error
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, idErr := kernel.UUIDFromBytes(raw[:])
		if idErr != nil {
			return nil, idErr
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// CountOrdersByDriver reports each driver's order count for the service
// date across their non-cancelled packages.
func (r *GormPackageRepository) CountOrdersByDriver(ctx context.Context, date time.Time) (map[kernel.UUID]int, error) {
	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT
			packages.driver_id,
			COUNT(assignments.id)
		FROM packages
		JOIN assignments ON assignments.package_id = packages.id
		WHERE packages.driver_id IS NOT NULL
		  AND packages.service_date = ?
		  AND packages.status != ?
		GROUP BY packages.driver_id
	`, date, int(pack.StatusCancelled)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workload := make(map[kernel.UUID]int)
	for rows.Next() {
		var rawID uuid.UUID
		var count int
		if err = rows.Scan(&rawID, &count); err != nil {
			return nil, err
		}

		driverID, idErr := kernel.UUIDFromBytes(rawID[:])
		if idErr != nil {
			return nil, idErr
		}
		workload[driverID] = count
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return workload, nil
}
