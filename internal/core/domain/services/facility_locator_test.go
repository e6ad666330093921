package services_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/facility"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacilityLocator_Locate(t *testing.T) {
	locator := services.NewFacilityLocator()
	noon := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("picks_nearest_open_facility", func(t *testing.T) {
		amsterdam := mustGeo(t, 52.3676, 4.9041)
		o := mustProcessingOrder(t, &amsterdam)

		utrecht := mustFacility(t, "Utrecht", 52.0907, 5.1214)
		paris := mustFacility(t, "Paris", 48.8566, 2.3522)

		got, err := locator.Locate(o, []*facility.Facility{paris, utrecht}, noon)
		require.NoError(t, err)
		assert.True(t, got.IsEqual(utrecht))
	})

	t.Run("skips_nearer_facility_that_is_closed", func(t *testing.T) {
		amsterdam := mustGeo(t, 52.3676, 4.9041)
		o := mustProcessingOrder(t, &amsterdam)

		utrecht := mustFacility(t, "Utrecht", 52.0907, 5.1214)
		paris := mustFacility(t, "Paris", 48.8566, 2.3522)

		// 6am: Utrecht has not opened yet, Paris is open around the clock.
		early := time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC)
		allDay, err := facility.RestoreFacility(paris.ID(), paris.Name(), paris.Location(), 0, 24*time.Hour, true)
		require.NoError(t, err)

		got, err := locator.Locate(o, []*facility.Facility{allDay, utrecht}, early)
		require.NoError(t, err)
		assert.True(t, got.IsEqual(paris))
	})

	t.Run("skips_inactive_facility", func(t *testing.T) {
		amsterdam := mustGeo(t, 52.3676, 4.9041)
		o := mustProcessingOrder(t, &amsterdam)

		utrecht := mustFacility(t, "Utrecht", 52.0907, 5.1214)
		utrecht.Deactivate()
		paris := mustFacility(t, "Paris", 48.8566, 2.3522)

		got, err := locator.Locate(o, []*facility.Facility{utrecht, paris}, noon)
		require.NoError(t, err)
		assert.True(t, got.IsEqual(paris))
	})

	t.Run("no_facility_available", func(t *testing.T) {
		amsterdam := mustGeo(t, 52.3676, 4.9041)
		o := mustProcessingOrder(t, &amsterdam)

		utrecht := mustFacility(t, "Utrecht", 52.0907, 5.1214)
		utrecht.Deactivate()

		_, err := locator.Locate(o, []*facility.Facility{utrecht}, noon)
		require.ErrorIs(t, err, services.ErrNoFacilityAvailable)

		_, err = locator.Locate(o, nil, noon)
		require.ErrorIs(t, err, services.ErrNoFacilityAvailable)
	})

	t.Run("unresolved_coordinates", func(t *testing.T) {
		o := mustProcessingOrder(t, nil)
		utrecht := mustFacility(t, "Utrecht", 52.0907, 5.1214)

		_, err := locator.Locate(o, []*facility.Facility{utrecht}, noon)
		require.ErrorIs(t, err, services.ErrCoordinatesUnresolved)
	})

	t.Run("distance_tie_breaks_to_lowest_id", func(t *testing.T) {
		amsterdam := mustGeo(t, 52.3676, 4.9041)
		o := mustProcessingOrder(t, &amsterdam)

		// Two facilities at the exact same position.
		a := mustFacility(t, "A", 52.0907, 5.1214)
		b := mustFacility(t, "B", 52.0907, 5.1214)

		want := a
		if b.ID().Less(a.ID()) {
			want = b
		}

		got, err := locator.Locate(o, []*facility.Facility{a, b}, noon)
		require.NoError(t, err)
		assert.True(t, got.IsEqual(want))

		// Same winner regardless of input order.
		got, err = locator.Locate(o, []*facility.Facility{b, a}, noon)
		require.NoError(t, err)
		assert.True(t, got.IsEqual(want))
	})
}

func TestFacilityLocator_Locate_InvalidOrder(t *testing.T) {
	locator := services.NewFacilityLocator()

	_, err := locator.Locate(nil, nil, time.Now())
	require.Error(t, err)
}
