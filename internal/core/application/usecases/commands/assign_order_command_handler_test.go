package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/event"
	"dispatch/internal/core/domain/model/facility"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/locks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedFacility(t *testing.T, store *fakeStore, lat, lon float64) *facility.Facility {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	f, err := facility.NewFacility(kernel.NewUUID(), "facility", p, 8*time.Hour, 20*time.Hour)
	require.NoError(t, err)
	store.facilities[f.ID()] = f
	return f
}

func seedDriver(t *testing.T, store *fakeStore, facilityIDs ...kernel.UUID) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(kernel.NewUUID(), "driver", facilityIDs)
	require.NoError(t, err)
	store.drivers[d.ID()] = d
	return d
}

func seedProcessingOrder(t *testing.T, store *fakeStore, lat, lon float64, day time.Time) *order.Order {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return seedOrder(t, store, &p, day)
}

func seedOrder(t *testing.T, store *fakeStore, location *kernel.GeoPoint, day time.Time) *order.Order {
	t.Helper()
	window, err := kernel.NewTimeWindow(day.Add(10*time.Hour), day.Add(14*time.Hour))
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), location, window)
	require.NoError(t, err)
	require.NoError(t, o.TransitionTo(order.Processing))
	store.orders[o.ID()] = o
	return o
}

func newAssignHandler(store *fakeStore) commands.AssignOrderCommandHandler {
	return commands.NewAssignOrderCommandHandler(&fakeUoWFactory{store: store}, locks.NewKeyedMutex(), 15)
}

func TestAssignOrderCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("assigns_order_to_new_driver_package", func(t *testing.T) {
		store := newFakeStore()
		f := seedFacility(t, store, 52.37, 4.90)
		d := seedDriver(t, store, f.ID())
		o := seedProcessingOrder(t, store, 52.38, 4.91, day)

		h := newAssignHandler(store)
		cmd, err := commands.NewAssignOrderCommand(o.ID())
		require.NoError(t, err)
		require.NoError(t, h.Handle(ctx, cmd))

		require.NotNil(t, o.Package())
		require.NotNil(t, o.Facility())
		assert.True(t, o.Facility().IsEqual(f.ID()))
		require.NotNil(t, o.Driver())
		assert.True(t, o.Driver().IsEqual(d.ID()))

		p := store.packages[*o.Package()]
		require.NotNil(t, p)
		assert.Equal(t, 1, p.OrderCount())
		a := p.AssignmentForOrder(o.ID())
		require.NotNil(t, a)
		assert.Equal(t, 1, a.Sequence())
		assert.Positive(t, p.RouteDistanceKm())

		assert.Len(t, store.eventsOfKind(event.KindPackageCreated), 1)
		assert.Len(t, store.eventsOfKind(event.KindOrderAssigned), 1)
		assert.Empty(t, store.eventsOfKind(event.KindUnassignedPackageAlert))
	})

	t.Run("no_driver_degrades_to_pending_package", func(t *testing.T) {
		store := newFakeStore()
		f := seedFacility(t, store, 52.37, 4.90)
		o := seedProcessingOrder(t, store, 52.38, 4.91, day)

		h := newAssignHandler(store)
		cmd, err := commands.NewAssignOrderCommand(o.ID())
		require.NoError(t, err)
		require.NoError(t, h.Handle(ctx, cmd))

		require.NotNil(t, o.Package())
		assert.Nil(t, o.Driver())
		p := store.packages[*o.Package()]
		require.NotNil(t, p)
		assert.Nil(t, p.Driver())
		require.NotNil(t, o.Facility())
		assert.True(t, o.Facility().IsEqual(f.ID()))

		assert.Len(t, store.eventsOfKind(event.KindUnassignedPackageAlert), 1)
	})

	t.Run("assign_is_idempotent", func(t *testing.T) {
		store := newFakeStore()
		f := seedFacility(t, store, 52.37, 4.90)
		seedDriver(t, store, f.ID())
		o := seedProcessingOrder(t, store, 52.38, 4.91, day)

		h := newAssignHandler(store)
		cmd, err := commands.NewAssignOrderCommand(o.ID())
		require.NoError(t, err)
		require.NoError(t, h.Handle(ctx, cmd))
		require.NoError(t, h.Handle(ctx, cmd))

		assert.Len(t, store.packages, 1)
		p := store.packages[*o.Package()]
		assert.Equal(t, 1, p.OrderCount())
		assert.Len(t, store.eventsOfKind(event.KindOrderAssigned), 1)
	})

	t.Run("second_order_gets_pending_package_when_driver_booked", func(t *testing.T) {
		store := newFakeStore()
		f := seedFacility(t, store, 52.37, 4.90)
		seedDriver(t, store, f.ID())
		first := seedProcessingOrder(t, store, 52.38, 4.91, day)
		second := seedProcessingOrder(t, store, 52.39, 4.92, day)

		h := newAssignHandler(store)

		cmd, err := commands.NewAssignOrderCommand(first.ID())
		require.NoError(t, err)
		require.NoError(t, h.Handle(ctx, cmd))

		// The only driver is now booked; the second order gets a pending
		// package rather than sharing the first one, since drivers take
		// exactly one package per date.
		cmd, err = commands.NewAssignOrderCommand(second.ID())
		require.NoError(t, err)
		require.NoError(t, h.Handle(ctx, cmd))

		require.NotNil(t, second.Package())
		assert.False(t, second.Package().IsEqual(*first.Package()))
		assert.Nil(t, second.Driver())
	})

	t.Run("no_facility_available", func(t *testing.T) {
		store := newFakeStore()
		o := seedProcessingOrder(t, store, 52.38, 4.91, day)

		h := newAssignHandler(store)
		cmd, err := commands.NewAssignOrderCommand(o.ID())
		require.NoError(t, err)

		err = h.Handle(ctx, cmd)
		require.ErrorIs(t, err, services.ErrNoFacilityAvailable)
		assert.Nil(t, o.Package())
		assert.Empty(t, store.packages)
	})

	t.Run("unresolved_coordinates_abort_assignment", func(t *testing.T) {
		store := newFakeStore()
		seedFacility(t, store, 52.37, 4.90)
		o := seedOrder(t, store, nil, day)

		h := newAssignHandler(store)
		cmd, err := commands.NewAssignOrderCommand(o.ID())
		require.NoError(t, err)

		err = h.Handle(ctx, cmd)
		require.ErrorIs(t, err, services.ErrCoordinatesUnresolved)
	})

	t.Run("pending_order_is_not_dispatchable", func(t *testing.T) {
		store := newFakeStore()
		f := seedFacility(t, store, 52.37, 4.90)
		seedDriver(t, store, f.ID())

		window, err := kernel.NewTimeWindow(day.Add(10*time.Hour), day.Add(14*time.Hour))
		require.NoError(t, err)
		stop, err := kernel.NewGeoPoint(52.38, 4.91)
		require.NoError(t, err)
		o, err := order.NewOrder(kernel.NewUUID(), &stop, window)
		require.NoError(t, err)
		store.orders[o.ID()] = o

		h := newAssignHandler(store)
		cmd, err := commands.NewAssignOrderCommand(o.ID())
		require.NoError(t, err)
		require.Error(t, h.Handle(ctx, cmd))
	})

	t.Run("unknown_order", func(t *testing.T) {
		store := newFakeStore()
		h := newAssignHandler(store)
		cmd, err := commands.NewAssignOrderCommand(kernel.NewUUID())
		require.NoError(t, err)
		require.Error(t, h.Handle(ctx, cmd))
	})

	t.Run("command_not_constructed", func(t *testing.T) {
		store := newFakeStore()
		h := newAssignHandler(store)
		err := h.Handle(ctx, commands.AssignOrderCommand{})
		require.ErrorIs(t, err, commands.ErrAssignOrderCommandIsNotConstructed)
	})
}
