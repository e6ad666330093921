// Package packagerepo provides data transfer objects and mapping functions
// for package persistence. A package row owns its assignment rows; the two
// are always written and loaded together.
//
// Two uniqueness constraints back the engine's concurrency model:
//   - assignments.order_id is unique, so an order is claimed at most once
//   - (driver_id, service_date) is unique among non-final packages, so a
//     driver holds at most one active package per day
package packagerepo

import (
	"sort"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/pack"

	"github.com/google/uuid"
)

// PackageDTO represents the database structure for persisting package
// aggregates. The partial unique index ignores completed and cancelled
// packages, so finishing a package frees the driver for a new one.
type PackageDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DriverID        *uuid.UUID `gorm:"type:uuid;index:idx_packages_driver_service_date,unique,where:status IN (1,2,3)"`
	FacilityID      uuid.UUID  `gorm:"type:uuid;index"`
	ServiceDate     time.Time  `gorm:"index:idx_packages_driver_service_date,unique,where:status IN (1,2,3)"`
	WindowFrom      time.Time
	WindowTo        time.Time
	Status          int `gorm:"index"`
	MaxSize         int
	RouteDistanceKm float64
	Assignments     []AssignmentDTO `gorm:"foreignKey:PackageID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for package entities.
func (PackageDTO) TableName() string {
	return "packages"
}

// AssignmentDTO represents the database structure for persisting
// assignments. The unique index on OrderID enforces one claim per order
// across all packages.
type AssignmentDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PackageID uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Lat       *float64
	Lon       *float64
	Sequence  int
	Status    int
}

// TableName specifies the database table name for assignment entities.
func (AssignmentDTO) TableName() string {
	return "assignments"
}

func fromDomain(aggregate *pack.Package) PackageDTO {
	packageID := aggregate.ID().Bytes()

	var driverID *uuid.UUID
	if id := aggregate.Driver(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	assignments := make([]AssignmentDTO, 0, aggregate.OrderCount())
	for _, a := range aggregate.Assignments() {
		dto := AssignmentDTO{
			ID:        a.ID().Bytes(),
			PackageID: packageID,
			OrderID:   a.OrderID().Bytes(),
			Sequence:  a.Sequence(),
			Status:    int(a.Status()),
		}
		if stop := a.Stop(); stop != nil {
			lat, lon := stop.Lat(), stop.Lon()
			dto.Lat, dto.Lon = &lat, &lon
		}
		assignments = append(assignments, dto)
	}

	return PackageDTO{
		ID:              packageID,
		DriverID:        driverID,
		FacilityID:      aggregate.Facility().Bytes(),
		ServiceDate:     aggregate.ServiceDate(),
		WindowFrom:      aggregate.Window().From(),
		WindowTo:        aggregate.Window().To(),
		Status:          int(aggregate.Status()),
		MaxSize:         aggregate.MaxSize(),
		RouteDistanceKm: aggregate.RouteDistanceKm(),
		Assignments:     assignments,
	}
}

func toDomain(dto PackageDTO) (*pack.Package, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	facilityID, err := kernel.UUIDFromBytes(dto.FacilityID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	window, err := kernel.NewTimeWindow(dto.WindowFrom, dto.WindowTo)
	if err != nil {
		return nil, err
	}

	rows := make([]AssignmentDTO, len(dto.Assignments))
	copy(rows, dto.Assignments)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Sequence < rows[j].Sequence })

	assignments := make([]*pack.Assignment, 0, len(rows))
	for _, row := range rows {
		a, rowErr := assignmentToDomain(row)
		if rowErr != nil {
			return nil, rowErr
		}
		assignments = append(assignments, a)
	}

	return pack.RestorePackage(id, facilityID, driverID, window,
		dto.MaxSize, pack.Status(dto.Status), assignments, dto.RouteDistanceKm)
}

func assignmentToDomain(dto AssignmentDTO) (*pack.Assignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var stop *kernel.GeoPoint
	if dto.Lat != nil && dto.Lon != nil {
		point, stopErr := kernel.NewGeoPoint(*dto.Lat, *dto.Lon)
		if stopErr != nil {
			return nil, stopErr
		}
		stop = &point
	}

	return pack.RestoreAssignment(id, orderID, stop, dto.Sequence, pack.StopStatus(dto.Status))
}
