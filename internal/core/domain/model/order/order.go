package order

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructors")

	// ErrOrderAlreadyAssigned indicates that the order is already linked to a
	// package. An order may have at most one package assignment, ever.
	ErrOrderAlreadyAssigned = errors.New("order already has a package assignment")

	// ErrDriverConflict indicates an attempt to point the order at a driver
	// different from the one already recorded on it.
	ErrDriverConflict = errors.New("order is already assigned to a different driver")
)

// Order is the aggregate the dispatch engine reacts to.
//
// Invariants enforced here:
//   - Must be created through a constructor
//   - At most one package link, set once and never replaced
//   - The driver reference cannot silently flip to a different driver
//   - Status is always one of the defined values
//
// The delivery location is nullable: it stays nil until the external
// geocoding collaborator resolves the street address, and dispatch decisions
// must treat a nil location as "unresolved", never guess one.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// facilityID is the resolved processing facility (nil until located)
	facilityID *kernel.UUID

	// driverID is the assigned driver (nil if unassigned)
	driverID *kernel.UUID

	// packageID links the order to its package assignment (nil if unclaimed)
	packageID *kernel.UUID

	// location is the delivery/pickup position (nil until geocoded)
	location *kernel.GeoPoint

	// window is the requested delivery interval
	window kernel.TimeWindow

	// status represents the current state in the order lifecycle
	status Status

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates an Order in Pending status.
//
// Parameters:
//   - id: unique identifier (must be a valid UUID)
//   - location: resolved delivery position, nil when geocoding is outstanding
//   - window: requested delivery window
//
// All inputs are validated; errors are aggregated into a single error.
func NewOrder(id kernel.UUID, location *kernel.GeoPoint, window kernel.TimeWindow) (*Order, error) {
	o := &Order{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setLocation(location),
		o.setWindow(window),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an Order from persistence, including its current
// status and facility/driver/package references. The restored order behaves
// identically to one built up through domain operations.
func RestoreOrder(
	id kernel.UUID,
	location *kernel.GeoPoint,
	window kernel.TimeWindow,
	status Status,
	facilityID, driverID, packageID *kernel.UUID,
) (*Order, error) {
	o := &Order{
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setLocation(location),
		o.setWindow(window),
		o.setStatus(status),
		o.setFacilityID(facilityID),
		o.setDriverID(driverID),
		o.setPackageID(packageID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Location returns the resolved delivery position, or nil when the address
// has not been geocoded yet.
func (o *Order) Location() *kernel.GeoPoint {
	return o.location
}

// Window returns the requested delivery window.
func (o *Order) Window() kernel.TimeWindow {
	return o.window
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Facility returns the resolved facility's ID, nil until located.
func (o *Order) Facility() *kernel.UUID {
	return o.facilityID
}

// Driver returns the assigned driver's ID, nil if unassigned.
func (o *Order) Driver() *kernel.UUID {
	return o.driverID
}

// Package returns the linked package's ID, nil while the order is unclaimed.
func (o *Order) Package() *kernel.UUID {
	return o.packageID
}

// IsAssigned reports whether the order is already claimed by a package.
func (o *Order) IsAssigned() bool {
	return o.packageID != nil
}

// ResolveLocation records the geocoded delivery position.
func (o *Order) ResolveLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}

	o.location = &location
	return nil
}

// AssignFacility records the facility that will process the order.
// The facility cannot change once the order is claimed by a package
// (packages belong to exactly one facility).
func (o *Order) AssignFacility(facilityID kernel.UUID) error {
	if err := facilityID.Validate(); err != nil {
		return err
	}
	if o.packageID != nil {
		return ErrOrderAlreadyAssigned
	}

	o.facilityID = &facilityID
	return nil
}

// AssignDriver records the driver delivering this order. Re-assigning the
// same driver is a no-op; pointing at a different driver is rejected, since
// the reference must stay consistent with the package's driver.
func (o *Order) AssignDriver(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	if o.driverID != nil {
		if o.driverID.IsEqual(driverID) {
			return nil
		}
		return ErrDriverConflict
	}

	o.driverID = &driverID
	return nil
}

// AttachToPackage links the order to its package. The link is write-once:
// attaching the same package again is a no-op, attaching a different one
// fails with ErrOrderAlreadyAssigned.
func (o *Order) AttachToPackage(packageID kernel.UUID) error {
	if err := packageID.Validate(); err != nil {
		return err
	}

	if o.packageID != nil {
		if o.packageID.IsEqual(packageID) {
			return nil
		}
		return ErrOrderAlreadyAssigned
	}

	o.packageID = &packageID
	return nil
}

// TransitionTo moves the order to the next lifecycle status, enforcing the
// intake state machine.
func (o *Order) TransitionTo(next Status) error {
	if err := next.Validate(); err != nil {
		return err
	}
	if !o.status.CanTransitionTo(next) {
		return errs.NewValueIsInvalidError("status transition " + o.status.String() + " -> " + next.String())
	}

	o.status = next
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setLocation(location *kernel.GeoPoint) error {
	if location == nil {
		return nil
	}
	if err := location.Validate(); err != nil {
		return err
	}
	o.location = location
	return nil
}

func (o *Order) setWindow(window kernel.TimeWindow) error {
	if err := window.Validate(); err != nil {
		return err
	}
	o.window = window
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setFacilityID(facilityID *kernel.UUID) error {
	if facilityID == nil {
		return nil
	}
	if err := facilityID.Validate(); err != nil {
		return err
	}
	o.facilityID = facilityID
	return nil
}

func (o *Order) setDriverID(driverID *kernel.UUID) error {
	if driverID == nil {
		return nil
	}
	if err := driverID.Validate(); err != nil {
		return err
	}
	o.driverID = driverID
	return nil
}

func (o *Order) setPackageID(packageID *kernel.UUID) error {
	if packageID == nil {
		return nil
	}
	if err := packageID.Validate(); err != nil {
		return err
	}
	o.packageID = packageID
	return nil
}
