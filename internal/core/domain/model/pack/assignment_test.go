package pack_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/pack"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAssignment(t *testing.T) {
	t.Run("starts_unsequenced_and_pending", func(t *testing.T) {
		orderID := kernel.NewUUID()
		a, err := pack.NewAssignment(kernel.NewUUID(), orderID, testStop(t, 52.37, 4.90))
		require.NoError(t, err)

		assert.True(t, a.OrderID().IsEqual(orderID))
		assert.Zero(t, a.Sequence())
		assert.Equal(t, pack.StopPending, a.Status())
		assert.True(t, a.HasResolvedStop())
	})

	t.Run("stop_may_be_unresolved", func(t *testing.T) {
		a, err := pack.NewAssignment(kernel.NewUUID(), kernel.NewUUID(), nil)
		require.NoError(t, err)
		assert.False(t, a.HasResolvedStop())
		assert.Nil(t, a.Stop())
	})

	t.Run("invalid_ids_fail", func(t *testing.T) {
		_, err := pack.NewAssignment(kernel.UUID{}, kernel.NewUUID(), nil)
		require.Error(t, err)

		_, err = pack.NewAssignment(kernel.NewUUID(), kernel.UUID{}, nil)
		require.Error(t, err)
	})
}

func TestAssignment_StopTransitions(t *testing.T) {
	t.Run("pending_to_delivered", func(t *testing.T) {
		a, err := pack.NewAssignment(kernel.NewUUID(), kernel.NewUUID(), nil)
		require.NoError(t, err)

		require.NoError(t, a.MarkPickedUp())
		assert.Equal(t, pack.StopPickedUp, a.Status())

		require.NoError(t, a.MarkDelivered())
		assert.Equal(t, pack.StopDelivered, a.Status())

		// Delivered is final.
		require.Error(t, a.MarkFailed())
		require.Error(t, a.MarkPickedUp())
	})

	t.Run("deliver_requires_pickup", func(t *testing.T) {
		a, err := pack.NewAssignment(kernel.NewUUID(), kernel.NewUUID(), nil)
		require.NoError(t, err)
		require.Error(t, a.MarkDelivered())
	})

	t.Run("fail_from_pending_or_picked_up", func(t *testing.T) {
		a, err := pack.NewAssignment(kernel.NewUUID(), kernel.NewUUID(), nil)
		require.NoError(t, err)
		require.NoError(t, a.MarkFailed())

		b, err := pack.NewAssignment(kernel.NewUUID(), kernel.NewUUID(), nil)
		require.NoError(t, err)
		require.NoError(t, b.MarkPickedUp())
		require.NoError(t, b.MarkFailed())
	})
}

func TestRestoreAssignment(t *testing.T) {
	a, err := pack.RestoreAssignment(kernel.NewUUID(), kernel.NewUUID(), testStop(t, 52.37, 4.90), 3, pack.StopPickedUp)
	require.NoError(t, err)

	assert.Equal(t, 3, a.Sequence())
	assert.Equal(t, pack.StopPickedUp, a.Status())

	_, err = pack.RestoreAssignment(kernel.NewUUID(), kernel.NewUUID(), nil, -1, pack.StopPending)
	require.Error(t, err)

	_, err = pack.RestoreAssignment(kernel.NewUUID(), kernel.NewUUID(), nil, 0, pack.StopUnknown)
	require.Error(t, err)
}

func TestStopStatus_String(t *testing.T) {
	assert.Equal(t, "pending", pack.StopPending.String())
	assert.Equal(t, "picked_up", pack.StopPickedUp.String())
	assert.Equal(t, "delivered", pack.StopDelivered.String())
	assert.Equal(t, "failed", pack.StopFailed.String())
	assert.Equal(t, "unknown", pack.StopUnknown.String())
}

func TestAssignment_Validate(t *testing.T) {
	var a *pack.Assignment
	require.ErrorIs(t, a.Validate(), pack.ErrAssignmentIsNotConstructed)

	direct := &pack.Assignment{}
	require.ErrorIs(t, direct.Validate(), pack.ErrAssignmentIsNotConstructed)
}
