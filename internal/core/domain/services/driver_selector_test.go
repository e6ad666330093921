package services_test

import (
	"testing"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverSelector_Select(t *testing.T) {
	selector := services.NewDriverSelector()
	facilityID := kernel.NewUUID()

	t.Run("picks_least_loaded_eligible_driver", func(t *testing.T) {
		busyDriver := mustDriver(t, "busy", facilityID)
		idleDriver := mustDriver(t, "idle", facilityID)

		workload := map[kernel.UUID]int{
			busyDriver.ID(): 5,
			idleDriver.ID(): 1,
		}

		got, err := selector.Select(facilityID, []*driver.Driver{busyDriver, idleDriver}, nil, workload)
		require.NoError(t, err)
		assert.True(t, got.IsEqual(idleDriver))
	})

	t.Run("missing_workload_counts_as_zero", func(t *testing.T) {
		loaded := mustDriver(t, "loaded", facilityID)
		fresh := mustDriver(t, "fresh", facilityID)

		got, err := selector.Select(facilityID, []*driver.Driver{loaded, fresh},
			nil, map[kernel.UUID]int{loaded.ID(): 1})
		require.NoError(t, err)
		assert.True(t, got.IsEqual(fresh))
	})

	t.Run("skips_busy_driver", func(t *testing.T) {
		first := mustDriver(t, "first", facilityID)
		second := mustDriver(t, "second", facilityID)

		busy := map[kernel.UUID]bool{first.ID(): true}
		got, err := selector.Select(facilityID, []*driver.Driver{first, second}, busy,
			map[kernel.UUID]int{first.ID(): 0, second.ID(): 10})
		require.NoError(t, err)
		assert.True(t, got.IsEqual(second))
	})

	t.Run("skips_inactive_driver", func(t *testing.T) {
		inactive := mustDriver(t, "inactive", facilityID)
		inactive.Deactivate()
		active := mustDriver(t, "active", facilityID)

		got, err := selector.Select(facilityID, []*driver.Driver{inactive, active}, nil, nil)
		require.NoError(t, err)
		assert.True(t, got.IsEqual(active))
	})

	t.Run("skips_driver_of_other_facility", func(t *testing.T) {
		elsewhere := mustDriver(t, "elsewhere", kernel.NewUUID())
		local := mustDriver(t, "local", facilityID)

		got, err := selector.Select(facilityID, []*driver.Driver{elsewhere, local}, nil, nil)
		require.NoError(t, err)
		assert.True(t, got.IsEqual(local))
	})

	t.Run("no_driver_available", func(t *testing.T) {
		inactive := mustDriver(t, "inactive", facilityID)
		inactive.Deactivate()

		_, err := selector.Select(facilityID, []*driver.Driver{inactive}, nil, nil)
		require.ErrorIs(t, err, services.ErrNoDriverAvailable)

		_, err = selector.Select(facilityID, nil, nil, nil)
		require.ErrorIs(t, err, services.ErrNoDriverAvailable)
	})

	t.Run("workload_tie_breaks_to_lowest_id", func(t *testing.T) {
		a := mustDriver(t, "a", facilityID)
		b := mustDriver(t, "b", facilityID)

		want := a
		if b.ID().Less(a.ID()) {
			want = b
		}

		got, err := selector.Select(facilityID, []*driver.Driver{a, b}, nil, nil)
		require.NoError(t, err)
		assert.True(t, got.IsEqual(want))

		got, err = selector.Select(facilityID, []*driver.Driver{b, a}, nil, nil)
		require.NoError(t, err)
		assert.True(t, got.IsEqual(want))
	})

	t.Run("invalid_facility_id", func(t *testing.T) {
		_, err := selector.Select(kernel.UUID{}, nil, nil, nil)
		require.Error(t, err)
	})
}
