// Package facility contains the Facility aggregate: a processing location
// with coordinates, an active flag and daily operating hours. Facilities are
// administered externally; the dispatch engine only reads them to pick the
// nearest open one for an order.
package facility

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrFacilityIsNotConstructed is returned when a Facility instance was not
// created through NewFacility or RestoreFacility.
var ErrFacilityIsNotConstructed = errors.New("Facility must be created via NewFacility or RestoreFacility constructors")

const dayLength = 24 * time.Hour

// Facility represents a processing facility.
//
// Operating hours are daily times-of-day expressed as offsets from midnight
// UTC; a facility is open for timestamps whose time-of-day falls within
// [opensAt, closesAt]. Capacity is unbounded at the facility level; packages
// are the capacity-bounded unit.
type Facility struct {
	id       kernel.UUID
	name     string
	location kernel.GeoPoint
	opensAt  time.Duration
	closesAt time.Duration
	active   bool

	isConstructed bool
}

// NewFacility creates an active Facility with validated coordinates and
// operating hours. opensAt and closesAt are offsets from midnight;
// opensAt must precede closesAt and both must fall within one day.
func NewFacility(id kernel.UUID, name string, location kernel.GeoPoint, opensAt, closesAt time.Duration) (*Facility, error) {
	f := &Facility{
		active:        true,
		isConstructed: true,
	}

	if err := errors.Join(
		f.setID(id),
		f.setName(name),
		f.setLocation(location),
		f.setHours(opensAt, closesAt),
	); err != nil {
		return nil, err
	}

	return f, nil
}

// RestoreFacility reconstructs a Facility from persistence, including its
// active flag.
func RestoreFacility(
	id kernel.UUID,
	name string,
	location kernel.GeoPoint,
	opensAt, closesAt time.Duration,
	active bool,
) (*Facility, error) {
	f, err := NewFacility(id, name, location, opensAt, closesAt)
	if err != nil {
		return nil, err
	}

	f.active = active
	return f, nil
}

// Validate ensures the Facility was created through a constructor.
func (f *Facility) Validate() error {
	if f == nil || !f.isConstructed {
		return ErrFacilityIsNotConstructed
	}
	return nil
}

// IsEqual compares two facilities by identity.
func (f *Facility) IsEqual(other *Facility) bool {
	return other != nil && f.id.IsEqual(other.id)
}

// ID returns the facility's unique identifier.
func (f *Facility) ID() kernel.UUID {
	return f.id
}

// Name returns the facility's display name.
func (f *Facility) Name() string {
	return f.name
}

// Location returns the facility's coordinates.
func (f *Facility) Location() kernel.GeoPoint {
	return f.location
}

// OpensAt returns the daily opening time as an offset from midnight.
func (f *Facility) OpensAt() time.Duration {
	return f.opensAt
}

// ClosesAt returns the daily closing time as an offset from midnight.
func (f *Facility) ClosesAt() time.Duration {
	return f.closesAt
}

// IsActive reports whether the facility accepts new orders.
func (f *Facility) IsActive() bool {
	return f.active
}

// Deactivate takes the facility out of rotation.
func (f *Facility) Deactivate() {
	f.active = false
}

// Activate returns the facility to rotation.
func (f *Facility) Activate() {
	f.active = true
}

// IsOpenAt reports whether the facility's operating hours cover the
// time-of-day of t (evaluated in UTC, closing time inclusive).
func (f *Facility) IsOpenAt(t time.Time) bool {
	utc := t.UTC()
	tod := time.Duration(utc.Hour())*time.Hour +
		time.Duration(utc.Minute())*time.Minute +
		time.Duration(utc.Second())*time.Second

	return tod >= f.opensAt && tod <= f.closesAt
}

func (f *Facility) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	f.id = id
	return nil
}

func (f *Facility) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	f.name = name
	return nil
}

func (f *Facility) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	f.location = location
	return nil
}

func (f *Facility) setHours(opensAt, closesAt time.Duration) error {
	if opensAt < 0 || opensAt > dayLength {
		return errs.NewValueIsOutOfRangeError("opensAt", opensAt, time.Duration(0), dayLength)
	}
	if closesAt < 0 || closesAt > dayLength {
		return errs.NewValueIsOutOfRangeError("closesAt", closesAt, time.Duration(0), dayLength)
	}
	if opensAt >= closesAt {
		return errs.NewValueIsInvalidErrorWithCause("operating hours",
			fmt.Errorf("opensAt %s is not before closesAt %s", opensAt, closesAt))
	}

	f.opensAt = opensAt
	f.closesAt = closesAt
	return nil
}
