package commands_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/event"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/pack"
	"dispatch/internal/pkg/locks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerateHandler(store *fakeStore) commands.GeneratePackagesCommandHandler {
	return commands.NewGeneratePackagesCommandHandler(
		&fakeUoWFactory{store: store}, locks.NewKeyedMutex(), 15, slog.Default())
}

func TestGeneratePackagesCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("sixteen_orders_one_driver_yields_two_packages", func(t *testing.T) {
		store := newFakeStore()
		f := seedFacility(t, store, 52.37, 4.90)
		d := seedDriver(t, store, f.ID())
		for i := 0; i < 16; i++ {
			o := seedProcessingOrder(t, store, 52.38, 4.90+float64(i)*0.01, day)
			require.NoError(t, o.AssignFacility(f.ID()))
		}

		h := newGenerateHandler(store)
		facilityID := f.ID()
		cmd, err := commands.NewGeneratePackagesCommand(&facilityID, day)
		require.NoError(t, err)
		require.NoError(t, h.Handle(ctx, cmd))

		require.Len(t, store.packages, 2)

		var assigned, pending *pack.Package
		for _, p := range store.packages {
			if p.Driver() != nil {
				assigned = p
			} else {
				pending = p
			}
		}

		require.NotNil(t, assigned)
		assert.True(t, assigned.Driver().IsEqual(d.ID()))
		assert.Equal(t, pack.StatusAssigned, assigned.Status())
		assert.Equal(t, 15, assigned.OrderCount())

		require.NotNil(t, pending)
		assert.Equal(t, pack.StatusPending, pending.Status())
		assert.Equal(t, 1, pending.OrderCount())

		alerts := store.eventsOfKind(event.KindUnassignedPackageAlert)
		require.Len(t, alerts, 1)
		require.NotNil(t, alerts[0].PackageID())
		assert.True(t, alerts[0].PackageID().IsEqual(pending.ID()))

		// Sequences are 1..15 on the driver package.
		seen := make(map[int]bool)
		for _, a := range assigned.Assignments() {
			seen[a.Sequence()] = true
		}
		for want := 1; want <= 15; want++ {
			assert.True(t, seen[want])
		}

		// Every order references the package driver it landed in.
		for _, a := range assigned.Assignments() {
			o := store.orders[a.OrderID()]
			require.NotNil(t, o.Driver())
			assert.True(t, o.Driver().IsEqual(d.ID()))
		}
	})

	t.Run("rerun_creates_nothing_new", func(t *testing.T) {
		store := newFakeStore()
		f := seedFacility(t, store, 52.37, 4.90)
		seedDriver(t, store, f.ID())
		for i := 0; i < 5; i++ {
			o := seedProcessingOrder(t, store, 52.38, 4.90+float64(i)*0.01, day)
			require.NoError(t, o.AssignFacility(f.ID()))
		}

		h := newGenerateHandler(store)
		facilityID := f.ID()
		cmd, err := commands.NewGeneratePackagesCommand(&facilityID, day)
		require.NoError(t, err)

		require.NoError(t, h.Handle(ctx, cmd))
		packagesAfterFirst := len(store.packages)
		eventsAfterFirst := len(store.events)

		require.NoError(t, h.Handle(ctx, cmd))
		assert.Equal(t, packagesAfterFirst, len(store.packages))
		assert.Equal(t, eventsAfterFirst, len(store.events))
	})

	t.Run("failure_in_one_facility_does_not_abort_others", func(t *testing.T) {
		store := newFakeStore()
		broken := seedFacility(t, store, 48.85, 2.35)
		healthy := seedFacility(t, store, 52.37, 4.90)
		seedDriver(t, store, healthy.ID())

		o := seedProcessingOrder(t, store, 52.38, 4.91, day)
		require.NoError(t, o.AssignFacility(healthy.ID()))

		store.dispatchableErr[broken.ID()] = errors.New("boom")

		h := newGenerateHandler(store)
		cmd, err := commands.NewGeneratePackagesCommand(nil, day)
		require.NoError(t, err)
		require.NoError(t, h.Handle(ctx, cmd))

		// The healthy facility got its package despite the broken one.
		require.NotNil(t, o.Package())
		failures := store.eventsOfKind(event.KindPackageGenerationError)
		require.Len(t, failures, 1)
		assert.Nil(t, failures[0].PackageID())
	})

	t.Run("orders_of_other_dates_are_skipped", func(t *testing.T) {
		store := newFakeStore()
		f := seedFacility(t, store, 52.37, 4.90)
		seedDriver(t, store, f.ID())
		o := seedProcessingOrder(t, store, 52.38, 4.91, day.Add(48*time.Hour))
		require.NoError(t, o.AssignFacility(f.ID()))

		h := newGenerateHandler(store)
		facilityID := f.ID()
		cmd, err := commands.NewGeneratePackagesCommand(&facilityID, day)
		require.NoError(t, err)
		require.NoError(t, h.Handle(ctx, cmd))

		assert.Empty(t, store.packages)
		assert.Nil(t, o.Package())
	})

	t.Run("command_normalizes_date_to_utc_midnight", func(t *testing.T) {
		local := time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)
		cmd, err := commands.NewGeneratePackagesCommand(nil, local)
		require.NoError(t, err)
		assert.Equal(t, day, cmd.Date())
	})

	t.Run("zero_date_is_rejected", func(t *testing.T) {
		_, err := commands.NewGeneratePackagesCommand(nil, time.Time{})
		require.ErrorIs(t, err, commands.ErrServiceDateIsRequired)
	})

	t.Run("invalid_facility_id_is_rejected", func(t *testing.T) {
		bad := kernel.UUID{}
		_, err := commands.NewGeneratePackagesCommand(&bad, day)
		require.Error(t, err)
	})
}
