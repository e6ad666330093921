package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/event"
	"dispatch/internal/core/domain/model/facility"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/locks"
)

// AssignOrderCommandHandler handles the synchronous dispatch path for a
// single order.
//
// Workflow:
//  1. Load the order; an already assigned order is a successful no-op.
//  2. Resolve the facility: keep the order's facility when set, otherwise
//     pick the nearest open one.
//  3. Obtain a package for (facility, service date) from the builder,
//     preferring the order's driver when it has one.
//  4. Claim the order into the package and resequence the route.
//
// Losing a concurrent claim race surfaces as ports.ErrConflict on commit;
// the handler re-reads the order and reports success when the other writer
// already assigned it.
type AssignOrderCommandHandler struct {
	uowFactory DispatchUoWFactory
	builder    packageBuilder
	locator    services.FacilityLocator
	guard      services.ConsistencyGuard
	sequencer  services.RouteSequencer
}

// NewAssignOrderCommandHandler creates a handler for single-order dispatch.
// keyedLocks must be shared with every other handler creating packages so
// that driver booking stays serialized process-wide.
func NewAssignOrderCommandHandler(uowFactory DispatchUoWFactory, keyedLocks *locks.KeyedMutex, maxPackageSize int) AssignOrderCommandHandler {
	return AssignOrderCommandHandler{
		uowFactory: uowFactory,
		builder:    newPackageBuilder(keyedLocks, maxPackageSize),
		locator:    services.NewFacilityLocator(),
		guard:      services.NewConsistencyGuard(),
		sequencer:  services.NewRouteSequencer(),
	}
}

// Handle processes the dispatch command for one order.
func (h *AssignOrderCommandHandler) Handle(ctx context.Context, cmd AssignOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if o.IsAssigned() {
		return uow.Commit(ctx)
	}
	if err = o.Status().ValidateDispatch(); err != nil {
		return err
	}

	f, err := h.resolveFacility(ctx, uow, o)
	if err != nil {
		return err
	}

	dayWindow, err := serviceDayWindow(o.Window().ServiceDate())
	if err != nil {
		return err
	}

	p, _, err := h.builder.build(ctx, uow, f, dayWindow, o.Driver())
	if err != nil {
		return err
	}

	if err = h.guard.ClaimOrder(kernel.NewUUID(), o, p); err != nil {
		return err
	}
	if err = h.sequencer.Sequence(p, f.Location()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return h.recoverLostClaim(ctx, cmd.OrderID(), err)
	}
	if err = uow.PackageRepository().Update(ctx, p); err != nil {
		return h.recoverLostClaim(ctx, cmd.OrderID(), err)
	}

	if err = appendEvent(ctx, uow, p.ID(), event.KindOrderAssigned,
		fmt.Sprintf("order %s assigned to package %s", o.ID(), p.ID())); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return h.recoverLostClaim(ctx, cmd.OrderID(), err)
	}
	return nil
}

// resolveFacility returns the order's facility, locating the nearest open
// one for orders not yet routed to a facility.
func (h *AssignOrderCommandHandler) resolveFacility(ctx context.Context, uow DispatchUoW, o *order.Order) (*facility.Facility, error) {
	if o.Facility() != nil {
		f, err := uow.FacilityRepository().Get(ctx, *o.Facility())
		if err != nil {
			return nil, err
		}
		if err = h.guard.CheckFacility(f); err != nil {
			return nil, err
		}
		return f, nil
	}

	candidates, err := uow.FacilityRepository().GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	f, err := h.locator.Locate(o, candidates, o.Window().From())
	if err != nil {
		return nil, err
	}
	if err = o.AssignFacility(f.ID()); err != nil {
		return nil, err
	}
	return f, nil
}

// recoverLostClaim turns a uniqueness-constraint loss into a no-op when the
// winning writer already assigned the order.
func (h *AssignOrderCommandHandler) recoverLostClaim(ctx context.Context, orderID kernel.UUID, cause error) error {
	if !errors.Is(cause, ports.ErrConflict) {
		return cause
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return cause
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return cause
	}
	if o.IsAssigned() {
		return nil
	}
	return cause
}

// serviceDayWindow spans the whole service day in UTC.
func serviceDayWindow(date time.Time) (kernel.TimeWindow, error) {
	return kernel.NewTimeWindow(date, date.Add(24*time.Hour))
}
