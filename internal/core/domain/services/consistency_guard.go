package services

import (
	"errors"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/facility"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/pack"
)

var (
	// ErrDriverMismatch is returned when an order or package would end up
	// referencing a driver different from the one it already has, or when a
	// driver does not serve the package's facility.
	ErrDriverMismatch = errors.New("driver mismatch")

	// ErrDriverDoubleBooked is returned when a driver already holds an
	// active package for the same service date.
	ErrDriverDoubleBooked = errors.New("driver is double booked")

	// ErrInactiveEntity is returned when a deactivated facility or driver
	// is used in an assignment.
	ErrInactiveEntity = errors.New("entity is inactive")

	// ErrFacilityMismatch is returned when an order's facility differs from
	// the facility of the package claiming it.
	ErrFacilityMismatch = errors.New("facility mismatch")
)

// ConsistencyGuard is a domain service enforcing the cross-aggregate rules
// that must hold before an order is claimed into a package.
//
// Business rules:
//   - An order belongs to at most one package, ever
//   - An order's facility must match its package's facility
//   - An order's driver must match its package's driver
//   - A driver holds at most one active package per service date
//   - Inactive facilities and drivers take no new work
//
// The guard mutates aggregates only after every check passes, so a failed
// claim leaves both the order and the package untouched.
type ConsistencyGuard struct{}

// NewConsistencyGuard creates a new ConsistencyGuard instance.
func NewConsistencyGuard() ConsistencyGuard {
	return ConsistencyGuard{}
}

// CheckFacility verifies that a facility may take new orders.
func (g ConsistencyGuard) CheckFacility(f *facility.Facility) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if !f.IsActive() {
		return ErrInactiveEntity
	}
	return nil
}

// CheckDriverForPackage verifies that a driver may be given the package.
// hasActivePackage reports whether the driver already holds another active
// package for the package's service date.
func (g ConsistencyGuard) CheckDriverForPackage(d *driver.Driver, p *pack.Package, hasActivePackage bool) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	if !d.IsActive() {
		return ErrInactiveEntity
	}
	if !d.ServesFacility(p.Facility()) {
		return ErrDriverMismatch
	}
	if hasActivePackage {
		return ErrDriverDoubleBooked
	}
	return nil
}

// ClaimOrder claims the order into the package, creating the assignment
// under assignmentID and propagating the package's driver onto the order.
//
// Claiming is idempotent for an order already in this package. An order
// held by a different package fails with order.ErrOrderAlreadyAssigned.
func (g ConsistencyGuard) ClaimOrder(assignmentID kernel.UUID, o *order.Order, p *pack.Package) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	if err := o.Status().ValidateDispatch(); err != nil {
		return err
	}
	if o.Facility() == nil || !o.Facility().IsEqual(p.Facility()) {
		return ErrFacilityMismatch
	}
	if o.IsAssigned() && !o.Package().IsEqual(p.ID()) {
		return order.ErrOrderAlreadyAssigned
	}
	if o.Driver() != nil && p.Driver() != nil && !o.Driver().IsEqual(*p.Driver()) {
		return ErrDriverMismatch
	}

	if p.AssignmentForOrder(o.ID()) != nil {
		// Already claimed by this package.
		return nil
	}
	if !p.HasCapacity() {
		return pack.ErrPackageIsFull
	}

	a, err := pack.NewAssignment(assignmentID, o.ID(), o.Location())
	if err != nil {
		return err
	}
	if err := p.AddAssignment(a); err != nil {
		return err
	}
	if err := o.AttachToPackage(p.ID()); err != nil {
		return err
	}
	if p.Driver() != nil {
		if err := o.AssignDriver(*p.Driver()); err != nil {
			return err
		}
	}
	return nil
}
