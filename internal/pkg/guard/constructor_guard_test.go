package guard_test

import (
	"errors"
	"testing"

	"osrorders/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConstructorGuard(t *testing.T) {
	t.Run("creates_properly_constructed_guard", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})
}

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("properly_constructed_guard_returns_nil", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		var g guard.ConstructorGuard // zero value
		expectedError := errors.New("entity not constructed")

		err := g.Validate(expectedError)

		require.Error(t, err)
		assert.Equal(t, expectedError, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard // zero value

		err := g.Validate(nil)

		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

// TestConstructorGuardUsageExample demonstrates how ConstructorGuard is used
// in a value object to enforce constructor usage.
func TestConstructorGuardUsageExample(t *testing.T) {
	type reference struct {
		value string
		guard guard.ConstructorGuard
	}

	var errReferenceNotConstructed = errors.New("reference must be created via newReference")

	newReference := func(value string) (reference, error) {
		if value == "" {
			return reference{}, errors.New("value is required")
		}
		return reference{value: value, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("valid_construction_through_constructor", func(t *testing.T) {
		ref, err := newReference("R-123")

		require.NoError(t, err)
		require.NoError(t, ref.guard.Validate(errReferenceNotConstructed))
		assert.Equal(t, "R-123", ref.value)
	})

	t.Run("zero_value_fails_validation", func(t *testing.T) {
		var ref reference // zero value

		err := ref.guard.Validate(errReferenceNotConstructed)

		require.Error(t, err)
		assert.Equal(t, errReferenceNotConstructed, err)
	})
}
