package commands

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/event"
	"dispatch/internal/core/domain/model/facility"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/pack"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/locks"
)

// packageBuilder finds or creates the package that should receive new
// assignments for a facility and service date.
//
// The "does this driver already have a package for this date" check and the
// subsequent create must not race: two concurrent callers could otherwise
// both book the same driver. The builder serializes the happy path with a
// per-(driver, date) mutex and relies on the storage layer's uniqueness
// constraint as the cross-process backstop; a ports.ErrConflict on insert
// means another caller won, so the search restarts with that driver busy.
type packageBuilder struct {
	locks    *locks.KeyedMutex
	selector services.DriverSelector
	maxSize  int
}

func newPackageBuilder(keyedLocks *locks.KeyedMutex, maxSize int) packageBuilder {
	return packageBuilder{
		locks:    keyedLocks,
		selector: services.NewDriverSelector(),
		maxSize:  maxSize,
	}
}

// build returns a package with free capacity for the facility and the
// window's service date, creating one when none fits. The returned bool
// reports whether a new package was created.
//
// When preferredDriver is set and holds an active package for the date at
// this facility with capacity left, that package is reused. A driverless
// pending package is created, with an unassigned_package_alert event, when
// no eligible driver remains.
func (b packageBuilder) build(
	ctx context.Context,
	uow DispatchUoW,
	f *facility.Facility,
	window kernel.TimeWindow,
	preferredDriver *kernel.UUID,
) (*pack.Package, bool, error) {
	date := window.ServiceDate()

	if preferredDriver != nil {
		existing, err := uow.PackageRepository().GetActiveByDriverAndDate(ctx, *preferredDriver, date)
		switch {
		case err == nil:
			if existing.Facility().IsEqual(f.ID()) && existing.HasCapacity() {
				return existing, false, nil
			}
			// The driver's package is full or belongs elsewhere; fall
			// through and book someone else.
		case errors.Is(err, errs.ErrObjectNotFound):
			// No package yet, the generic search below may still pick
			// the preferred driver.
		default:
			return nil, false, err
		}
	}

	drivers, err := uow.DriverRepository().GetAllServingFacility(ctx, f.ID())
	if err != nil {
		return nil, false, err
	}

	busyIDs, err := uow.PackageRepository().GetDriverIDsWithActivePackages(ctx, date)
	if err != nil {
		return nil, false, err
	}
	busy := make(map[kernel.UUID]bool, len(busyIDs))
	for _, id := range busyIDs {
		busy[id] = true
	}

	workload, err := uow.PackageRepository().CountOrdersByDriver(ctx, date)
	if err != nil {
		return nil, false, err
	}

	// Every iteration either succeeds or marks one more driver busy, so the
	// loop ends after at most len(drivers)+1 attempts.
	for {
		selected, err := b.selector.Select(f.ID(), drivers, busy, workload)
		if errors.Is(err, services.ErrNoDriverAvailable) {
			return b.createPackage(ctx, uow, f, window, nil)
		}
		if err != nil {
			return nil, false, err
		}

		created, won, err := b.tryBookDriver(ctx, uow, f, window, selected.ID())
		if err != nil {
			return nil, false, err
		}
		if won {
			return created, true, nil
		}
		busy[selected.ID()] = true
	}
}

// tryBookDriver creates a package for the driver under the (driver, date)
// mutex. Returns won=false when the driver turned out to be taken.
func (b packageBuilder) tryBookDriver(
	ctx context.Context,
	uow DispatchUoW,
	f *facility.Facility,
	window kernel.TimeWindow,
	driverID kernel.UUID,
) (*pack.Package, bool, error) {
	date := window.ServiceDate()
	unlock := b.locks.Lock(driverID.String() + "|" + date.Format("2006-01-02"))
	defer unlock()

	_, err := uow.PackageRepository().GetActiveByDriverAndDate(ctx, driverID, date)
	if err == nil {
		return nil, false, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, false, err
	}

	created, _, err := b.createPackage(ctx, uow, f, window, &driverID)
	if errors.Is(err, ports.ErrConflict) {
		// Lost the race to a writer outside this process.
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

// createPackage persists a new package and its audit trail. A nil driverID
// produces a pending package and raises the unassigned alert.
func (b packageBuilder) createPackage(
	ctx context.Context,
	uow DispatchUoW,
	f *facility.Facility,
	window kernel.TimeWindow,
	driverID *kernel.UUID,
) (*pack.Package, bool, error) {
	created, err := pack.NewPackage(kernel.NewUUID(), f.ID(), driverID, window, b.maxSize)
	if err != nil {
		return nil, false, err
	}

	if err = uow.PackageRepository().Add(ctx, created); err != nil {
		return nil, false, err
	}

	if err = appendEvent(ctx, uow, created.ID(), event.KindPackageCreated,
		fmt.Sprintf("package created for facility %s on %s", f.ID(), created.ServiceDate().Format("2006-01-02"))); err != nil {
		return nil, false, err
	}

	if driverID == nil {
		if err = appendEvent(ctx, uow, created.ID(), event.KindUnassignedPackageAlert,
			fmt.Sprintf("no driver available for facility %s on %s", f.ID(), created.ServiceDate().Format("2006-01-02"))); err != nil {
			return nil, false, err
		}
	}

	return created, true, nil
}

func appendEvent(ctx context.Context, uow EventRepoFactory, packageID kernel.UUID, kind event.Kind, payload string) error {
	record, err := event.NewEvent(kernel.NewUUID(), &packageID, kind, payload)
	if err != nil {
		return err
	}
	return uow.EventRepository().Add(ctx, record)
}
