package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/pack"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizeRouteCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("resequences_package_stops", func(t *testing.T) {
		store := newFakeStore()
		f := seedFacility(t, store, 52.0, 4.0)

		window, err := kernel.NewTimeWindow(day, day.Add(24*time.Hour))
		require.NoError(t, err)
		p, err := pack.NewPackage(kernel.NewUUID(), f.ID(), nil, window, 15)
		require.NoError(t, err)

		far, err := kernel.NewGeoPoint(52.0, 4.3)
		require.NoError(t, err)
		near, err := kernel.NewGeoPoint(52.0, 4.1)
		require.NoError(t, err)

		aFar, err := pack.NewAssignment(kernel.NewUUID(), kernel.NewUUID(), &far)
		require.NoError(t, err)
		require.NoError(t, p.AddAssignment(aFar))
		aNear, err := pack.NewAssignment(kernel.NewUUID(), kernel.NewUUID(), &near)
		require.NoError(t, err)
		require.NoError(t, p.AddAssignment(aNear))

		store.packages[p.ID()] = p

		h := commands.NewOptimizeRouteCommandHandler(&fakePackageUoWFactory{store: store})
		cmd, err := commands.NewOptimizeRouteCommand(p.ID())
		require.NoError(t, err)
		require.NoError(t, h.Handle(ctx, cmd))

		assert.Equal(t, 1, aNear.Sequence())
		assert.Equal(t, 2, aFar.Sequence())
		assert.Positive(t, p.RouteDistanceKm())

		// Re-running yields the same sequence.
		require.NoError(t, h.Handle(ctx, cmd))
		assert.Equal(t, 1, aNear.Sequence())
		assert.Equal(t, 2, aFar.Sequence())
	})

	t.Run("unknown_package", func(t *testing.T) {
		store := newFakeStore()
		h := commands.NewOptimizeRouteCommandHandler(&fakePackageUoWFactory{store: store})
		cmd, err := commands.NewOptimizeRouteCommand(kernel.NewUUID())
		require.NoError(t, err)
		require.Error(t, h.Handle(ctx, cmd))
	})

	t.Run("command_not_constructed", func(t *testing.T) {
		store := newFakeStore()
		h := commands.NewOptimizeRouteCommandHandler(&fakePackageUoWFactory{store: store})
		require.ErrorIs(t, h.Handle(ctx, commands.OptimizeRouteCommand{}),
			commands.ErrOptimizeRouteCommandIsNotConstructed)
	})

	t.Run("invalid_package_id", func(t *testing.T) {
		_, err := commands.NewOptimizeRouteCommand(kernel.UUID{})
		require.Error(t, err)
	})
}
