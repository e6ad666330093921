// Package facilityrepo provides data transfer objects and mapping functions
// for facility persistence.
package facilityrepo

import (
	"time"

	"dispatch/internal/core/domain/model/facility"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// FacilityDTO represents the database structure for persisting facility
// aggregates. Operating hours are stored as nanosecond offsets from
// midnight.
type FacilityDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name     string
	Lat      float64
	Lon      float64
	OpensAt  int64
	ClosesAt int64
	Active   bool `gorm:"index"`
}

// TableName specifies the database table name for facility entities.
func (FacilityDTO) TableName() string {
	return "facilities"
}

func fromDomain(aggregate *facility.Facility) FacilityDTO {
	return FacilityDTO{
		ID:       aggregate.ID().Bytes(),
		Name:     aggregate.Name(),
		Lat:      aggregate.Location().Lat(),
		Lon:      aggregate.Location().Lon(),
		OpensAt:  int64(aggregate.OpensAt()),
		ClosesAt: int64(aggregate.ClosesAt()),
		Active:   aggregate.IsActive(),
	}
}

func toDomain(dto FacilityDTO) (*facility.Facility, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.Lat, dto.Lon)
	if err != nil {
		return nil, err
	}

	return facility.RestoreFacility(id, dto.Name, location,
		time.Duration(dto.OpensAt), time.Duration(dto.ClosesAt), dto.Active)
}
