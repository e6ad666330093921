// Package eventrepo provides data transfer objects and mapping functions
// for the append-only event log.
package eventrepo

import (
	"time"

	"dispatch/internal/core/domain/model/event"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// EventDTO represents the database structure for persisting audit events.
type EventDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PackageID  *uuid.UUID `gorm:"type:uuid;index"`
	Kind       string     `gorm:"type:varchar(64);not null;index"`
	Payload    string     `gorm:"type:text"`
	OccurredAt time.Time  `gorm:"index"`
}

// TableName specifies the database table name for event entities.
func (EventDTO) TableName() string {
	return "events"
}

func fromDomain(aggregate *event.Event) EventDTO {
	var packageID *uuid.UUID
	if id := aggregate.PackageID(); id != nil {
		raw := id.Bytes()
		packageID = &raw
	}

	return EventDTO{
		ID:         aggregate.ID().Bytes(),
		PackageID:  packageID,
		Kind:       aggregate.Kind().String(),
		Payload:    aggregate.Payload(),
		OccurredAt: aggregate.OccurredAt(),
	}
}

func toDomain(dto EventDTO) (*event.Event, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var packageID *kernel.UUID
	if dto.PackageID != nil {
		pID, pkgErr := kernel.UUIDFromBytes((*dto.PackageID)[:])
		if pkgErr != nil {
			return nil, pkgErr
		}
		packageID = &pID
	}

	return event.RestoreEvent(id, packageID, event.Kind(dto.Kind), dto.Payload, dto.OccurredAt)
}
