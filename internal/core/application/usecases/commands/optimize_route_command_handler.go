package commands

import (
	"context"

	"dispatch/internal/core/domain/services"
)

// OptimizeRouteCommandHandler recomputes the stop order of a package from
// its facility's coordinates. Invoked after every claim and re-invokable at
// any time, for instance when an assignment was added concurrently with a
// previous sequencing run.
type OptimizeRouteCommandHandler struct {
	uowFactory PackageUoWFactory
	sequencer  services.RouteSequencer
}

// NewOptimizeRouteCommandHandler creates a handler for route recomputation.
func NewOptimizeRouteCommandHandler(uowFactory PackageUoWFactory) OptimizeRouteCommandHandler {
	return OptimizeRouteCommandHandler{
		uowFactory: uowFactory,
		sequencer:  services.NewRouteSequencer(),
	}
}

// Handle processes the route recomputation command.
func (h *OptimizeRouteCommandHandler) Handle(ctx context.Context, cmd OptimizeRouteCommand) error {
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

	p, err := uow.PackageRepository().Get(ctx, cmd.PackageID())
	if err != nil {
		return err
	}

	f, err := uow.FacilityRepository().Get(ctx, p.Facility())
	if err != nil {
		return err
	}

	if err = h.sequencer.Sequence(p, f.Location()); err != nil {
		return err
	}

	if err = uow.PackageRepository().Update(ctx, p); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
