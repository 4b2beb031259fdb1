package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/domain/model/kernel"
)

func TestNewUUID(t *testing.T) {
	t.Run("should create valid unique identifiers", func(t *testing.T) {
		first := kernel.NewUUID()
		second := kernel.NewUUID()

		require.NoError(t, first.Validate())
		require.NoError(t, second.Validate())
		assert.False(t, first.IsEqual(second))
	})
}

func TestNewDeterministicUUID(t *testing.T) {
	t.Run("same parts yield the same identity", func(t *testing.T) {
		orderID := kernel.NewUUID()

		first := kernel.NewDeterministicUUID(orderID.String(), "CONFIRMED")
		second := kernel.NewDeterministicUUID(orderID.String(), "CONFIRMED")

		require.NoError(t, first.Validate())
		assert.True(t, first.IsEqual(second))
	})

	t.Run("different parts yield different identities", func(t *testing.T) {
		orderID := kernel.NewUUID()

		confirmed := kernel.NewDeterministicUUID(orderID.String(), "CONFIRMED")
		packed := kernel.NewDeterministicUUID(orderID.String(), "PACKED")

		assert.False(t, confirmed.IsEqual(packed))
	})
}

func TestUUIDFromString(t *testing.T) {
	t.Run("should round-trip through string form", func(t *testing.T) {
		original := kernel.NewUUID()

		parsed, err := kernel.UUIDFromString(original.String())

		require.NoError(t, err)
		assert.True(t, original.IsEqual(parsed))
	})

	t.Run("should reject malformed input", func(t *testing.T) {
		_, err := kernel.UUIDFromString("not-a-uuid")
		require.Error(t, err)
	})
}

func TestUUID_Validate(t *testing.T) {
	t.Run("zero value should fail validation", func(t *testing.T) {
		var id kernel.UUID
		err := id.Validate()

		require.Error(t, err)
		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}
