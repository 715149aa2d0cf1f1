package idlock_test

import (
	"sync"
	"testing"

	"osrorders/internal/pkg/idlock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_TryAcquire(t *testing.T) {
	t.Run("acquires_free_identifier", func(t *testing.T) {
		r := idlock.NewRegistry()

		release, err := r.TryAcquire("order-1")

		require.NoError(t, err)
		require.NotNil(t, release)
		assert.True(t, r.IsHeld("order-1"))
	})

	t.Run("rejects_held_identifier", func(t *testing.T) {
		r := idlock.NewRegistry()
		_, err := r.TryAcquire("order-1")
		require.NoError(t, err)

		_, err = r.TryAcquire("order-1")

		require.ErrorIs(t, err, idlock.ErrLocked)
	})

	t.Run("different_identifiers_do_not_contend", func(t *testing.T) {
		r := idlock.NewRegistry()
		_, err := r.TryAcquire("order-1")
		require.NoError(t, err)

		_, err = r.TryAcquire("order-2")

		require.NoError(t, err)
	})

	t.Run("release_reclaims_entry", func(t *testing.T) {
		r := idlock.NewRegistry()
		release, err := r.TryAcquire("order-1")
		require.NoError(t, err)

		release()

		assert.False(t, r.IsHeld("order-1"))
		_, err = r.TryAcquire("order-1")
		require.NoError(t, err)
	})

	t.Run("double_release_is_noop", func(t *testing.T) {
		r := idlock.NewRegistry()
		release, err := r.TryAcquire("order-1")
		require.NoError(t, err)

		release()
		release()

		otherRelease, err := r.TryAcquire("order-1")
		require.NoError(t, err)

		// The second release of the first holder must not free the new holder.
		release()
		assert.True(t, r.IsHeld("order-1"))
		otherRelease()
	})
}

func TestRegistry_ConcurrentAcquire(t *testing.T) {
	r := idlock.NewRegistry()

	const goroutines = 32
	var wg sync.WaitGroup
	acquired := make(chan func(), goroutines)

	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if release, err := r.TryAcquire("contended"); err == nil {
				acquired <- release
			}
		}()
	}
	wg.Wait()
	close(acquired)

	releases := make([]func(), 0, goroutines)
	for release := range acquired {
		releases = append(releases, release)
	}

	// Exactly one goroutine may win the lock.
	require.Len(t, releases, 1)
	releases[0]()
	assert.False(t, r.IsHeld("contended"))
}
