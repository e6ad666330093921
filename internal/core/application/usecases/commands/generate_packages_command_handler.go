package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/event"
	"dispatch/internal/core/domain/model/facility"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/locks"
)

// GeneratePackagesCommandHandler handles the batch dispatch path. For every
// targeted facility it drains the dispatchable orders of the service date
// into capacity-bounded packages.
//
// Each facility runs in its own transaction; a failure is logged, recorded
// as a package_generation_error event and never aborts the other
// facilities. Re-running the batch is safe: orders already claimed into a
// package are excluded from the candidate set.
type GeneratePackagesCommandHandler struct {
	uowFactory DispatchUoWFactory
	builder    packageBuilder
	guard      services.ConsistencyGuard
	sequencer  services.RouteSequencer
	logger     *slog.Logger
}

// NewGeneratePackagesCommandHandler creates a handler for batch dispatch.
// keyedLocks must be the same instance used by the single-order handler.
func NewGeneratePackagesCommandHandler(
	uowFactory DispatchUoWFactory,
	keyedLocks *locks.KeyedMutex,
	maxPackageSize int,
	logger *slog.Logger,
) GeneratePackagesCommandHandler {
	return GeneratePackagesCommandHandler{
		uowFactory: uowFactory,
		builder:    newPackageBuilder(keyedLocks, maxPackageSize),
		guard:      services.NewConsistencyGuard(),
		sequencer:  services.NewRouteSequencer(),
		logger:     logger,
	}
}

// Handle processes the batch dispatch command.
func (h *GeneratePackagesCommandHandler) Handle(ctx context.Context, cmd GeneratePackagesCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	facilities, err := h.targetFacilities(ctx, cmd)
	if err != nil {
		return err
	}

	for _, f := range facilities {
		if err := h.processFacility(ctx, f, cmd.Date()); err != nil {
			h.logger.Error("package generation failed for facility",
				"facility_id", f.ID().String(),
				"date", cmd.Date().Format("2006-01-02"),
				"error", err)
			h.recordGenerationError(ctx, f, cmd.Date(), err)
		}
	}
	return nil
}

func (h *GeneratePackagesCommandHandler) targetFacilities(ctx context.Context, cmd GeneratePackagesCommand) ([]*facility.Facility, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if cmd.FacilityID() != nil {
		f, err := uow.FacilityRepository().Get(ctx, *cmd.FacilityID())
		if err != nil {
			return nil, err
		}
		if err = h.guard.CheckFacility(f); err != nil {
			return nil, err
		}
		return []*facility.Facility{f}, nil
	}

	return uow.FacilityRepository().GetAllActive(ctx)
}

// processFacility drains the facility's dispatchable orders for the date
// into packages, one transaction for the whole facility.
func (h *GeneratePackagesCommandHandler) processFacility(ctx context.Context, f *facility.Facility, date time.Time) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	candidates, err := uow.OrderRepository().GetAllDispatchable(ctx, f.ID())
	if err != nil {
		return err
	}

	remaining := make([]*order.Order, 0, len(candidates))
	for _, o := range candidates {
		if o.Window().ServiceDate().Equal(date) {
			remaining = append(remaining, o)
		}
	}
	if len(remaining) == 0 {
		return uow.Commit(ctx)
	}

	dayWindow, err := serviceDayWindow(date)
	if err != nil {
		return err
	}

	for len(remaining) > 0 {
		p, _, err := h.builder.build(ctx, uow, f, dayWindow, nil)
		if err != nil {
			return err
		}

		for len(remaining) > 0 && p.HasCapacity() {
			o := remaining[0]
			remaining = remaining[1:]

			if err = h.guard.ClaimOrder(kernel.NewUUID(), o, p); err != nil {
				return err
			}
			if err = uow.OrderRepository().Update(ctx, o); err != nil {
				return err
			}
			if err = appendEvent(ctx, uow, p.ID(), event.KindOrderAssigned,
				fmt.Sprintf("order %s assigned to package %s", o.ID(), p.ID())); err != nil {
				return err
			}
		}

		if err = h.sequencer.Sequence(p, f.Location()); err != nil {
			return err
		}
		if err = uow.PackageRepository().Update(ctx, p); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}

// recordGenerationError appends the failure to the event log in its own
// transaction, since the facility's transaction already rolled back.
func (h *GeneratePackagesCommandHandler) recordGenerationError(ctx context.Context, f *facility.Facility, date time.Time, cause error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		h.logger.Error("cannot record package_generation_error event", "error", err)
		return
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	record, err := event.NewEvent(kernel.NewUUID(), nil, event.KindPackageGenerationError,
		fmt.Sprintf("facility %s, date %s: %v", f.ID(), date.Format("2006-01-02"), cause))
	if err != nil {
		h.logger.Error("cannot record package_generation_error event", "error", err)
		return
	}

	if err = uow.EventRepository().Add(ctx, record); err != nil {
		h.logger.Error("cannot record package_generation_error event", "error", err)
		return
	}
	if err = uow.Commit(ctx); err != nil {
		h.logger.Error("cannot record package_generation_error event", "error", err)
	}
}
