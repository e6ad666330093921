// Package driverrepo provides data transfer objects and mapping functions
// for driver persistence, including the driver-facility service links.
package driverrepo

import (
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverDTO represents the database structure for persisting driver
// aggregates with the facilities they serve.
type DriverDTO struct {
	ID         uuid.UUID          `gorm:"type:uuid;primaryKey"`
	Name       string             `gorm:"type:varchar(255);not null"`
	Active     bool               `gorm:"index"`
	Facilities []DriverFacilityDTO `gorm:"foreignKey:DriverID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for driver entities.
func (DriverDTO) TableName() string {
	return "drivers"
}

// DriverFacilityDTO links a driver to a facility it serves.
type DriverFacilityDTO struct {
	DriverID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	FacilityID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName specifies the database table name for driver-facility links.
func (DriverFacilityDTO) TableName() string {
	return "driver_facilities"
}

func fromDomain(aggregate *driver.Driver) DriverDTO {
	driverID := aggregate.ID().Bytes()
	links := make([]DriverFacilityDTO, 0, len(aggregate.Facilities()))
	for _, facilityID := range aggregate.Facilities() {
		links = append(links, DriverFacilityDTO{
			DriverID:   driverID,
			FacilityID: facilityID.Bytes(),
		})
	}

	return DriverDTO{
		ID:         driverID,
		Name:       aggregate.Name(),
		Active:     aggregate.IsActive(),
		Facilities: links,
	}
}

func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	facilityIDs := make([]kernel.UUID, 0, len(dto.Facilities))
	for _, link := range dto.Facilities {
		facilityID, linkErr := kernel.UUIDFromBytes(link.FacilityID[:])
		if linkErr != nil {
			return nil, linkErr
		}
		facilityIDs = append(facilityIDs, facilityID)
	}

	return driver.RestoreDriver(id, dto.Name, facilityIDs, dto.Active)
}
