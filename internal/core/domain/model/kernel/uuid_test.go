package kernel_test

import (
	"testing"

	"osrorders/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	t.Run("generates_valid_unique_identifiers", func(t *testing.T) {
		first := kernel.NewUUID()
		second := kernel.NewUUID()

		require.NoError(t, first.Validate())
		require.NoError(t, second.Validate())
		assert.False(t, first.IsEqual(second))
	})
}

func TestUUIDFromString(t *testing.T) {
	t.Run("parses_canonical_form", func(t *testing.T) {
		id, err := kernel.UUIDFromString("550e8400-e29b-41d4-a716-446655440000")

		require.NoError(t, err)
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())
	})

	t.Run("rejects_malformed_input", func(t *testing.T) {
		_, err := kernel.UUIDFromString("not-a-uuid")

		require.Error(t, err)
	})
}

func TestUUIDFromBytes(t *testing.T) {
	t.Run("round_trips_through_bytes", func(t *testing.T) {
		original := kernel.NewUUID()
		raw := original.Bytes()

		restored, err := kernel.UUIDFromBytes(raw[:])

		require.NoError(t, err)
		assert.True(t, original.IsEqual(restored))
	})

	t.Run("rejects_wrong_length", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes([]byte{0x01, 0x02})

		require.Error(t, err)
	})

	t.Run("rejects_nil_uuid", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes(make([]byte, 16))

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestUUID_Validate(t *testing.T) {
	t.Run("zero_value_is_invalid", func(t *testing.T) {
		var id kernel.UUID

		require.ErrorIs(t, id.Validate(), kernel.ErrUUIDIsNotConstructed)
	})
}
