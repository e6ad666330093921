package services

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/facility"
	"dispatch/internal/core/domain/model/order"
)

// ErrNoFacilityAvailable is returned when no active facility is open at the
// requested time. The caller decides whether to retry later or surface the
// failure to the operator.
var ErrNoFacilityAvailable = errors.New("no facility available")

// ErrCoordinatesUnresolved is returned for orders whose delivery address was
// never geocoded. Such orders cannot be matched to a facility by distance.
var ErrCoordinatesUnresolved = errors.New("order coordinates are unresolved")

// FacilityLocator is a domain service that matches an order to the facility
// it should be fulfilled from.
//
// Business rules:
//   - Only active facilities are considered
//   - A facility must be open at the evaluation time
//   - The nearest facility by great-circle distance wins
//   - Distance ties break toward the lowest facility id, so repeated runs
//     over the same data pick the same facility
type FacilityLocator struct{}

// NewFacilityLocator creates a new FacilityLocator instance.
func NewFacilityLocator() FacilityLocator {
	return FacilityLocator{}
}

// Locate returns the nearest facility that is active and open at the given
// time.
//
// Returns ErrCoordinatesUnresolved when the order has no location, and
// ErrNoFacilityAvailable when no facility passes the filters.
func (l FacilityLocator) Locate(o *order.Order, facilities []*facility.Facility, at time.Time) (*facility.Facility, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.Location() == nil {
		return nil, ErrCoordinatesUnresolved
	}

	var (
		best     *facility.Facility
		bestDist float64
	)
	for _, f := range facilities {
		if err := f.Validate(); err != nil {
			return nil, err
		}
		if !f.IsActive() || !f.IsOpenAt(at) {
			continue
		}

		dist, err := o.Location().DistanceTo(f.Location())
		if err != nil {
			return nil, err
		}

		if best == nil || dist < bestDist || (dist == bestDist && f.ID().Less(best.ID())) {
			best = f
			bestDist = dist
		}
	}

	if best == nil {
		return nil, ErrNoFacilityAvailable
	}
	return best, nil
}
