package pack

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrPackageIsNotConstructed is returned when a Package instance was not
	// created through NewPackage or RestorePackage.
	ErrPackageIsNotConstructed = errors.New("Package must be created via NewPackage or RestorePackage constructors")

	// ErrPackageIsFull indicates the package already holds its configured
	// maximum number of assignments.
	ErrPackageIsFull = errors.New("package is full")

	// ErrOrderAlreadyInPackage indicates the order already has an assignment
	// in this package.
	ErrOrderAlreadyInPackage = errors.New("order already has an assignment in this package")

	// ErrRouteIsNotAPermutation indicates an ApplyRoute call whose stop order
	// does not visit every assignment exactly once.
	ErrRouteIsNotAPermutation = errors.New("route must visit every assignment exactly once")
)

// Package is the aggregate root grouping orders for one driver, one facility
// and one service date.
//
// Invariants enforced here:
//   - Must be created through a constructor
//   - Holds at most maxSize assignments
//   - At most one assignment per order within the package
//   - The driver reference is write-once; setting it moves a pending
//     package to assigned
//   - An applied route is always a permutation of the current assignments
//
// The cross-package side of the rules (one assignment per order globally,
// one active package per driver per date) is enforced by the consistency
// guard and the storage layer's unique constraints.
type Package struct {
	// id is the unique identifier for the package
	id kernel.UUID

	// driverID is the assigned driver (nil while the package is pending)
	driverID *kernel.UUID

	// facilityID is the facility all of the package's orders resolve to
	facilityID kernel.UUID

	// serviceDate is the UTC midnight of the day the package is delivered
	serviceDate time.Time

	// window is the union delivery window the package serves
	window kernel.TimeWindow

	// status represents the current state in the package lifecycle
	status Status

	// maxSize bounds the number of assignments (MAX_PACKAGE_SIZE)
	maxSize int

	// assignments are the claimed orders, one stop each
	assignments []*Assignment

	// routeDistanceKm is the aggregate length of the sequenced route
	routeDistanceKm float64

	// isConstructed ensures the package was created via a constructor
	isConstructed bool
}

// NewPackage creates an empty Package for the given facility and window.
// The service date derives from the window. With a driver the package starts
// in StatusAssigned; without one it starts pending, waiting for a driver.
func NewPackage(id kernel.UUID, facilityID kernel.UUID, driverID *kernel.UUID, window kernel.TimeWindow, maxSize int) (*Package, error) {
	p := &Package{
		status:        StatusPending,
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setFacilityID(facilityID),
		p.setWindow(window),
		p.setMaxSize(maxSize),
	); err != nil {
		return nil, err
	}

	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return nil, err
		}
		p.driverID = driverID
		p.status = StatusAssigned
	}

	return p, nil
}

// RestorePackage reconstructs a Package from persistence, including its
// assignments and route summary.
func RestorePackage(
	id kernel.UUID,
	facilityID kernel.UUID,
	driverID *kernel.UUID,
	window kernel.TimeWindow,
	maxSize int,
	status Status,
	assignments []*Assignment,
	routeDistanceKm float64,
) (*Package, error) {
	p := &Package{
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setFacilityID(facilityID),
		p.setWindow(window),
		p.setMaxSize(maxSize),
		p.setStatus(status),
	); err != nil {
		return nil, err
	}

	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return nil, err
		}
		p.driverID = driverID
	}

	if len(assignments) > p.maxSize {
		return nil, ErrPackageIsFull
	}
	for _, a := range assignments {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if p.AssignmentForOrder(a.OrderID()) != nil {
			return nil, ErrOrderAlreadyInPackage
		}
		p.assignments = append(p.assignments, a)
	}

	if routeDistanceKm < 0 {
		return nil, errs.NewValueIsInvalidError("routeDistanceKm")
	}
	p.routeDistanceKm = routeDistanceKm

	return p, nil
}

// Validate ensures the Package was created through a constructor.
func (p *Package) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPackageIsNotConstructed
	}
	return nil
}

// IsEqual compares two packages by identity.
func (p *Package) IsEqual(other *Package) bool {
	return other != nil && p.id.IsEqual(other.id)
}

// ID returns the package's unique identifier.
func (p *Package) ID() kernel.UUID {
	return p.id
}

// Driver returns the assigned driver's ID, nil while the package is pending.
func (p *Package) Driver() *kernel.UUID {
	return p.driverID
}

// Facility returns the ID of the facility the package is built for.
func (p *Package) Facility() kernel.UUID {
	return p.facilityID
}

// ServiceDate returns the UTC midnight of the delivery day.
func (p *Package) ServiceDate() time.Time {
	return p.serviceDate
}

// Window returns the package's delivery window.
func (p *Package) Window() kernel.TimeWindow {
	return p.window
}

// Status returns the package's lifecycle status.
func (p *Package) Status() Status {
	return p.status
}

// MaxSize returns the configured assignment capacity.
func (p *Package) MaxSize() int {
	return p.maxSize
}

// RouteDistanceKm returns the aggregate length of the sequenced route.
func (p *Package) RouteDistanceKm() float64 {
	return p.routeDistanceKm
}

// Assignments returns a copy of the package's assignment list.
// The assignments themselves are shared; the slice is not.
func (p *Package) Assignments() []*Assignment {
	out := make([]*Assignment, len(p.assignments))
	copy(out, p.assignments)
	return out
}

// OrderCount returns the number of orders in the package.
func (p *Package) OrderCount() int {
	return len(p.assignments)
}

// HasCapacity reports whether the package can accept another assignment.
func (p *Package) HasCapacity() bool {
	return len(p.assignments) < p.maxSize
}

// AssignmentForOrder returns the assignment claiming the given order,
// or nil when the order is not in this package.
func (p *Package) AssignmentForOrder(orderID kernel.UUID) *Assignment {
	for _, a := range p.assignments {
		if a.OrderID().IsEqual(orderID) {
			return a
		}
	}
	return nil
}

// AddAssignment claims an order into the package. The assignment enters at
// the end of the current sequence; the route sequencer recomputes true stop
// order afterwards. Fails when the package is full or the order is already
// claimed here.
func (p *Package) AddAssignment(a *Assignment) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if !p.HasCapacity() {
		return ErrPackageIsFull
	}
	if p.AssignmentForOrder(a.OrderID()) != nil {
		return ErrOrderAlreadyInPackage
	}

	// Provisional position after all currently sequenced stops.
	maxSeq := 0
	for _, existing := range p.assignments {
		if existing.Sequence() > maxSeq {
			maxSeq = existing.Sequence()
		}
	}
	_ = a.setSequence(maxSeq + 1)

	p.assignments = append(p.assignments, a)
	return nil
}

// AssignDriver records the driver for a pending package.
// The reference is write-once; assigning the same driver again is a no-op.
func (p *Package) AssignDriver(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	if p.driverID != nil {
		if p.driverID.IsEqual(driverID) {
			return nil
		}
		return errs.NewValueIsInvalidErrorWithCause("driver is invalid",
			fmt.Errorf("package %s already belongs to driver %s", p.id, p.driverID))
	}

	newStatus, err := p.status.AssignDriver()
	if err != nil {
		return err
	}

	p.status = newStatus
	p.driverID = &driverID
	return nil
}

// Start moves an assigned package out for delivery.
func (p *Package) Start() error {
	newStatus, err := p.status.Start()
	if err != nil {
		return err
	}
	p.status = newStatus
	return nil
}

// Complete marks the package as fully delivered.
func (p *Package) Complete() error {
	newStatus, err := p.status.Complete()
	if err != nil {
		return err
	}
	p.status = newStatus
	return nil
}

// Cancel withdraws an active package.
func (p *Package) Cancel() error {
	newStatus, err := p.status.Cancel()
	if err != nil {
		return err
	}
	p.status = newStatus
	return nil
}

// ApplyRoute installs a visiting order computed by the route sequencer.
// ordered lists assignment IDs in visiting order and must be a permutation
// of the package's assignments; sequences are rewritten 1..n and the
// aggregate distance is stored.
func (p *Package) ApplyRoute(ordered []kernel.UUID, totalDistanceKm float64) error {
	if len(ordered) != len(p.assignments) {
		return ErrRouteIsNotAPermutation
	}
	if totalDistanceKm < 0 {
		return errs.NewValueIsInvalidError("totalDistanceKm")
	}

	byID := make(map[kernel.UUID]*Assignment, len(p.assignments))
	for _, a := range p.assignments {
		byID[a.ID()] = a
	}

	seen := make(map[kernel.UUID]bool, len(ordered))
	for _, id := range ordered {
		if _, ok := byID[id]; !ok || seen[id] {
			return ErrRouteIsNotAPermutation
		}
		seen[id] = true
	}

	for i, id := range ordered {
		_ = byID[id].setSequence(i + 1)
	}
	p.routeDistanceKm = totalDistanceKm
	return nil
}

func (p *Package) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Package) setFacilityID(facilityID kernel.UUID) error {
	if err := facilityID.Validate(); err != nil {
		return err
	}
	p.facilityID = facilityID
	return nil
}

func (p *Package) setWindow(window kernel.TimeWindow) error {
	if err := window.Validate(); err != nil {
		return err
	}
	p.window = window
	p.serviceDate = window.ServiceDate()
	return nil
}

func (p *Package) setMaxSize(maxSize int) error {
	if maxSize <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("maxSize is invalid",
			fmt.Errorf("%d is not greater than 0", maxSize))
	}
	p.maxSize = maxSize
	return nil
}

func (p *Package) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	p.status = status
	return nil
}
