package driver_test

import (
	"testing"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDriver(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		id := kernel.NewUUID()
		facilityID := kernel.NewUUID()

		d, err := driver.NewDriver(id, "Dana", []kernel.UUID{facilityID})
		require.NoError(t, err)

		assert.True(t, d.ID().IsEqual(id))
		assert.Equal(t, "Dana", d.Name())
		assert.True(t, d.IsActive())
		assert.True(t, d.ServesFacility(facilityID))
		assert.Len(t, d.Facilities(), 1)
	})

	t.Run("empty_facility_list_allowed", func(t *testing.T) {
		d, err := driver.NewDriver(kernel.NewUUID(), "Dana", nil)
		require.NoError(t, err)
		assert.Empty(t, d.Facilities())
	})

	t.Run("empty_name_fails", func(t *testing.T) {
		_, err := driver.NewDriver(kernel.NewUUID(), "", nil)
		require.Error(t, err)
	})

	t.Run("invalid_facility_id_fails", func(t *testing.T) {
		_, err := driver.NewDriver(kernel.NewUUID(), "Dana", []kernel.UUID{{}})
		require.Error(t, err)
	})
}

func TestDriver_ServesFacility(t *testing.T) {
	served := kernel.NewUUID()
	other := kernel.NewUUID()

	d, err := driver.NewDriver(kernel.NewUUID(), "Dana", []kernel.UUID{served})
	require.NoError(t, err)

	assert.True(t, d.ServesFacility(served))
	assert.False(t, d.ServesFacility(other))
}

func TestDriver_AddFacility(t *testing.T) {
	d, err := driver.NewDriver(kernel.NewUUID(), "Dana", nil)
	require.NoError(t, err)

	facilityID := kernel.NewUUID()
	require.NoError(t, d.AddFacility(facilityID))
	require.NoError(t, d.AddFacility(facilityID)) // idempotent
	assert.Len(t, d.Facilities(), 1)

	require.Error(t, d.AddFacility(kernel.UUID{}))
}

func TestDriver_FacilitiesIsACopy(t *testing.T) {
	facilityID := kernel.NewUUID()
	d, err := driver.NewDriver(kernel.NewUUID(), "Dana", []kernel.UUID{facilityID})
	require.NoError(t, err)

	got := d.Facilities()
	got[0] = kernel.NewUUID()

	assert.True(t, d.ServesFacility(facilityID))
}

func TestRestoreDriver(t *testing.T) {
	d, err := driver.RestoreDriver(kernel.NewUUID(), "Dana", nil, false)
	require.NoError(t, err)
	assert.False(t, d.IsActive())

	d.Activate()
	assert.True(t, d.IsActive())
}

func TestDriver_Validate(t *testing.T) {
	var d *driver.Driver
	require.ErrorIs(t, d.Validate(), driver.ErrDriverIsNotConstructed)
}
