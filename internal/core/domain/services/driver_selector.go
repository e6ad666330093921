package services

import (
	"errors"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

// ErrNoDriverAvailable is returned when no eligible driver can take a package.
// A package may legitimately remain driverless; callers record an alert and
// leave the package pending.
var ErrNoDriverAvailable = errors.New("no driver available")

// DriverSelector is a domain service that picks the driver for a freshly
// built package.
//
// Business rules:
//   - Only active drivers are considered
//   - The driver must serve the package's facility
//   - A driver already holding an active package for the service date is busy
//   - Among the eligible, the one with the fewest assigned orders wins
//   - Workload ties break toward the lowest driver id for determinism
type DriverSelector struct{}

// NewDriverSelector creates a new DriverSelector instance.
func NewDriverSelector() DriverSelector {
	return DriverSelector{}
}

// Select returns the least loaded eligible driver for a facility.
//
// busy holds the ids of drivers that already have an active package on the
// service date. workload maps driver ids to the number of orders currently
// assigned to them; missing entries count as zero.
func (s DriverSelector) Select(
	facilityID kernel.UUID,
	drivers []*driver.Driver,
	busy map[kernel.UUID]bool,
	workload map[kernel.UUID]int,
) (*driver.Driver, error) {
	if err := facilityID.Validate(); err != nil {
		return nil, err
	}

	var (
		best     *driver.Driver
		bestLoad int
	)
	for _, d := range drivers {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if !d.IsActive() || !d.ServesFacility(facilityID) || busy[d.ID()] {
			continue
		}

		load := workload[d.ID()]
		if best == nil || load < bestLoad || (load == bestLoad && d.ID().Less(best.ID())) {
			best = d
			bestLoad = load
		}
	}

	if best == nil {
		return nil, ErrNoDriverAvailable
	}
	return best, nil
}
