package facilityrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/facility"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormFacilityRepository implements FacilityRepository using GORM.
type GormFacilityRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormFacilityRepository creates a new GORM facility repository.
func NewGormFacilityRepository(db *gorm.DB, tracker aggregateTracker) *GormFacilityRepository {
	return &GormFacilityRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new facility to the database.
func (r *GormFacilityRepository) Add(ctx context.Context, aggregate *facility.Facility) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing facility to the database. All columns are
// written so deactivation persists.
func (r *GormFacilityRepository) Update(ctx context.Context, aggregate *facility.Facility) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&FacilityDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a facility by ID.
func (r *GormFacilityRepository) Get(ctx context.Context, id kernel.UUID) (*facility.Facility, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto FacilityDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("facility", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllActive retrieves all facilities accepting new orders, ordered by id.
func (r *GormFacilityRepository) GetAllActive(ctx context.Context) ([]*facility.Facility, error) {
	var dtos []FacilityDTO
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	facilities := make([]*facility.Facility, 0, len(dtos))
	for _, dto := range dtos {
		f, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		facilities = append(facilities, f)
	}

	return facilities, nil
}
