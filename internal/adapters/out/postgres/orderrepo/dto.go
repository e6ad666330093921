// Package orderrepo provides data transfer objects and mapping functions
// for order persistence. It implements the repository pattern for the order
// aggregate, converting between domain entities and database rows.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order
// aggregates. Coordinates are nullable: geocoding may still be pending when
// the order is stored.
type OrderDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Lat        *float64
	Lon        *float64
	WindowFrom time.Time
	WindowTo   time.Time
	Status     int        `gorm:"index"`
	FacilityID *uuid.UUID `gorm:"type:uuid;index"`
	DriverID   *uuid.UUID `gorm:"type:uuid;index"`
	PackageID  *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:         aggregate.ID().Bytes(),
		WindowFrom: aggregate.Window().From(),
		WindowTo:   aggregate.Window().To(),
		Status:     int(aggregate.Status()),
		FacilityID: refBytes(aggregate.Facility()),
		DriverID:   refBytes(aggregate.Driver()),
		PackageID:  refBytes(aggregate.Package()),
	}

	if loc := aggregate.Location(); loc != nil {
		lat, lon := loc.Lat(), loc.Lon()
		dto.Lat, dto.Lon = &lat, &lon
	}

	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if dto.Lat != nil && dto.Lon != nil {
		point, locErr := kernel.NewGeoPoint(*dto.Lat, *dto.Lon)
		if locErr != nil {
			return nil, locErr
		}
		location = &point
	}

	window, err := kernel.NewTimeWindow(dto.WindowFrom, dto.WindowTo)
	if err != nil {
		return nil, err
	}

	facilityID, err := refUUID(dto.FacilityID)
	if err != nil {
		return nil, err
	}
	driverID, err := refUUID(dto.DriverID)
	if err != nil {
		return nil, err
	}
	packageID, err := refUUID(dto.PackageID)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(id, location, window, order.Status(dto.Status), facilityID, driverID, packageID)
}

func refBytes(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func refUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
