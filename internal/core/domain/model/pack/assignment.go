package pack

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrAssignmentIsNotConstructed indicates that the Assignment was not
	// created through NewAssignment or RestoreAssignment.
	ErrAssignmentIsNotConstructed = errors.New(
		"Assignment must be created via NewAssignment or RestoreAssignment constructors")
)

// StopStatus represents the per-stop delivery state of an assignment.
type StopStatus int

const (
	// StopUnknown represents an invalid or undefined stop status.
	StopUnknown StopStatus = iota

	// StopPending marks a stop not yet visited.
	StopPending

	// StopPickedUp marks a stop whose goods are on the vehicle.
	StopPickedUp

	// StopDelivered is a final state for successfully served stops.
	StopDelivered

	// StopFailed is a final state for stops that could not be served.
	StopFailed
)

// Validate checks that the StopStatus holds one of the defined values.
func (s StopStatus) Validate() error {
	if s < StopPending || s > StopFailed {
		return errs.NewValueIsInvalidErrorWithCause("stop status is invalid",
			fmt.Errorf("%d is not a valid stop status", s))
	}
	return nil
}

// String implements fmt.Stringer.
func (s StopStatus) String() string {
	switch s {
	case StopPending:
		return "pending"
	case StopPickedUp:
		return "picked_up"
	case StopDelivered:
		return "delivered"
	case StopFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Assignment links one order into a package and represents the physical
// stop for that order on the package's route.
//
// A sequence of 0 means "not yet sequenced"; the route sequencer rewrites
// sequences starting at 1. The stop's coordinates are nullable: an order
// whose address was never geocoded still gets claimed, but its stop is
// excluded from distance comparisons and placed at the end of the route.
type Assignment struct {
	// id is the unique identifier for the assignment
	id kernel.UUID

	// orderID is the claimed order; unique across all packages
	orderID kernel.UUID

	// stop is the delivery position (nil while unresolved)
	stop *kernel.GeoPoint

	// sequence is the 1-based visiting position, 0 while unsequenced
	sequence int

	// status is the per-stop delivery state
	status StopStatus

	// guard ensures the entity was created via a constructor
	guard kernel.ConstructorGuard
}

// NewAssignment creates an unsequenced Assignment in StopPending status.
// stop may be nil when the order's address has not been geocoded.
func NewAssignment(id, orderID kernel.UUID, stop *kernel.GeoPoint) (*Assignment, error) {
	a := &Assignment{
		status: StopPending,
		guard:  kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setOrderID(orderID),
		a.setStop(stop),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// RestoreAssignment reconstructs an Assignment from persistence, including
// its sequence number and stop status.
func RestoreAssignment(id, orderID kernel.UUID, stop *kernel.GeoPoint, sequence int, status StopStatus) (*Assignment, error) {
	a := &Assignment{
		guard: kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setOrderID(orderID),
		a.setStop(stop),
		a.setSequence(sequence),
		a.setStatus(status),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// Validate ensures the Assignment was created through a constructor.
func (a *Assignment) Validate() error {
	if a == nil {
		return ErrAssignmentIsNotConstructed
	}
	return a.guard.Validate(ErrAssignmentIsNotConstructed)
}

// IsEqual compares two assignments by identity.
func (a *Assignment) IsEqual(other *Assignment) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// ID returns the assignment's unique identifier.
func (a *Assignment) ID() kernel.UUID {
	return a.id
}

// OrderID returns the claimed order's identifier.
func (a *Assignment) OrderID() kernel.UUID {
	return a.orderID
}

// Stop returns the delivery position, or nil while unresolved.
func (a *Assignment) Stop() *kernel.GeoPoint {
	return a.stop
}

// HasResolvedStop reports whether the stop's coordinates are known.
func (a *Assignment) HasResolvedStop() bool {
	return a.stop != nil
}

// Sequence returns the 1-based visiting position, 0 while unsequenced.
func (a *Assignment) Sequence() int {
	return a.sequence
}

// Status returns the per-stop delivery state.
func (a *Assignment) Status() StopStatus {
	return a.status
}

// MarkPickedUp records that the stop's goods are on the vehicle.
func (a *Assignment) MarkPickedUp() error {
	if a.status != StopPending {
		return errs.NewValueIsInvalidErrorWithCause("stop status is invalid",
			fmt.Errorf("%s is not a valid status to pick up", a.status))
	}
	a.status = StopPickedUp
	return nil
}

// MarkDelivered records a successfully served stop.
func (a *Assignment) MarkDelivered() error {
	if a.status != StopPickedUp {
		return errs.NewValueIsInvalidErrorWithCause("stop status is invalid",
			fmt.Errorf("%s is not a valid status to deliver", a.status))
	}
	a.status = StopDelivered
	return nil
}

// MarkFailed records a stop that could not be served.
func (a *Assignment) MarkFailed() error {
	if a.status != StopPending && a.status != StopPickedUp {
		return errs.NewValueIsInvalidErrorWithCause("stop status is invalid",
			fmt.Errorf("%s is not a valid status to fail", a.status))
	}
	a.status = StopFailed
	return nil
}

func (a *Assignment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Assignment) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	a.orderID = orderID
	return nil
}

func (a *Assignment) setStop(stop *kernel.GeoPoint) error {
	if stop == nil {
		return nil
	}
	if err := stop.Validate(); err != nil {
		return err
	}
	a.stop = stop
	return nil
}

func (a *Assignment) setSequence(sequence int) error {
	if sequence < 0 {
		return errs.NewValueIsInvalidError("sequence")
	}
	a.sequence = sequence
	return nil
}

func (a *Assignment) setStatus(status StopStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	a.status = status
	return nil
}
