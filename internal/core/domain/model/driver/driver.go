// Package driver contains the Driver aggregate: a person who delivers
// packages for one or more facilities. Drivers are administered externally;
// the dispatch engine reads them to find an eligible driver for a new
// package and to enforce the one-active-package-per-date rule.
package driver

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrDriverIsNotConstructed is returned when a Driver instance was not
// created through NewDriver or RestoreDriver.
var ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver or RestoreDriver constructors")

// Driver represents a delivery driver with the set of facilities they can
// serve (a many-to-many relation maintained by administration).
type Driver struct {
	id          kernel.UUID
	name        string
	active      bool
	facilityIDs []kernel.UUID

	isConstructed bool
}

// NewDriver creates an active Driver serving the given facilities.
// The facility list may be empty; such a driver is never eligible for
// package assignment until facilities are added.
func NewDriver(id kernel.UUID, name string, facilityIDs []kernel.UUID) (*Driver, error) {
	d := &Driver{
		active:        true,
		isConstructed: true,
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setFacilityIDs(facilityIDs),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDriver reconstructs a Driver from persistence, including its
// active flag.
func RestoreDriver(id kernel.UUID, name string, facilityIDs []kernel.UUID, active bool) (*Driver, error) {
	d, err := NewDriver(id, name, facilityIDs)
	if err != nil {
		return nil, err
	}

	d.active = active
	return d, nil
}

// Validate ensures the Driver was created through a constructor.
func (d *Driver) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDriverIsNotConstructed
	}
	return nil
}

// IsEqual compares two drivers by identity.
func (d *Driver) IsEqual(other *Driver) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// ID returns the driver's unique identifier.
func (d *Driver) ID() kernel.UUID {
	return d.id
}

// Name returns the driver's display name.
func (d *Driver) Name() string {
	return d.name
}

// IsActive reports whether the driver is available for new packages.
func (d *Driver) IsActive() bool {
	return d.active
}

// Deactivate takes the driver out of rotation.
func (d *Driver) Deactivate() {
	d.active = false
}

// Activate returns the driver to rotation.
func (d *Driver) Activate() {
	d.active = true
}

// Facilities returns a copy of the facility IDs the driver can serve.
func (d *Driver) Facilities() []kernel.UUID {
	out := make([]kernel.UUID, len(d.facilityIDs))
	copy(out, d.facilityIDs)
	return out
}

// ServesFacility reports whether the driver can serve the given facility.
func (d *Driver) ServesFacility(facilityID kernel.UUID) bool {
	for _, id := range d.facilityIDs {
		if id.IsEqual(facilityID) {
			return true
		}
	}
	return false
}

// AddFacility registers another facility the driver can serve.
// Adding a facility twice is a no-op.
func (d *Driver) AddFacility(facilityID kernel.UUID) error {
	if err := facilityID.Validate(); err != nil {
		return err
	}
	if d.ServesFacility(facilityID) {
		return nil
	}

	d.facilityIDs = append(d.facilityIDs, facilityID)
	return nil
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	d.name = name
	return nil
}

func (d *Driver) setFacilityIDs(facilityIDs []kernel.UUID) error {
	for _, id := range facilityIDs {
		if err := id.Validate(); err != nil {
			return err
		}
	}

	d.facilityIDs = make([]kernel.UUID, len(facilityIDs))
	copy(d.facilityIDs, facilityIDs)
	return nil
}
