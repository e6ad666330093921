package services_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/facility"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/pack"

	"github.com/stretchr/testify/require"
)

func mustGeo(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return p
}

func mustWindow(t *testing.T) kernel.TimeWindow {
	t.Helper()
	from := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	w, err := kernel.NewTimeWindow(from, from.Add(8*time.Hour))
	require.NoError(t, err)
	return w
}

func mustFacility(t *testing.T, name string, lat, lon float64) *facility.Facility {
	t.Helper()
	f, err := facility.NewFacility(kernel.NewUUID(), name, mustGeo(t, lat, lon), 8*time.Hour, 18*time.Hour)
	require.NoError(t, err)
	return f
}

func mustDriver(t *testing.T, name string, facilityIDs ...kernel.UUID) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(kernel.NewUUID(), name, facilityIDs)
	require.NoError(t, err)
	return d
}

// mustProcessingOrder builds an order that has passed intake and is ready
// for dispatch.
func mustProcessingOrder(t *testing.T, location *kernel.GeoPoint) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), location, mustWindow(t))
	require.NoError(t, err)
	require.NoError(t, o.TransitionTo(order.Processing))
	return o
}

func mustPackage(t *testing.T, facilityID kernel.UUID, driverID *kernel.UUID, maxSize int) *pack.Package {
	t.Helper()
	p, err := pack.NewPackage(kernel.NewUUID(), facilityID, driverID, mustWindow(t), maxSize)
	require.NoError(t, err)
	return p
}
