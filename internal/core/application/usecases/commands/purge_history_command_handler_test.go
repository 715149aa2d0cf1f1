package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osrorders/internal/core/application/usecases/commands"
	"osrorders/internal/core/domain/model/kernel"
	"osrorders/internal/core/domain/model/order"
	"osrorders/internal/pkg/idlock"
)

func TestNewPurgeHistoryCommand(t *testing.T) {
	_, err := commands.NewPurgeHistoryCommand(0)
	assert.ErrorIs(t, err, commands.ErrMaxAgeIsInvalid)

	_, err = commands.NewPurgeHistoryCommand(-time.Hour)
	assert.ErrorIs(t, err, commands.ErrMaxAgeIsInvalid)

	cmd, err := commands.NewPurgeHistoryCommand(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cmd.MaxAge())
}

func TestPurgeHistoryCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	repo := newFakeHistoryRepo()
	now := time.Now().UTC()
	old := now.Add(-48 * time.Hour)

	expiredCompleted := seedRecord(t, repo, order.Completed, old)
	expiredCancelled := seedRecord(t, repo, order.Cancelled, old)
	expiredFailed := seedRecord(t, repo, order.Failed, old)
	expiredSent := seedRecord(t, repo, order.Sent, old)
	expiredUnknown := seedRecord(t, repo, order.Unknown, old)
	expiredPending := seedRecord(t, repo, order.Pending, old)
	freshCompleted := seedRecord(t, repo, order.Completed, now)
	freshSent := seedRecord(t, repo, order.Sent, now)

	handler := commands.NewPurgeHistoryCommandHandler(
		&fakeUoWFactory{repo: repo}, idlock.NewRegistry())

	cmd, err := commands.NewPurgeHistoryCommand(24 * time.Hour)
	require.NoError(t, err)

	removed, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 6, removed)

	expired := []kernel.UUID{
		expiredCompleted, expiredCancelled, expiredFailed,
		expiredSent, expiredUnknown, expiredPending,
	}
	for _, id := range expired {
		_, err := repo.Get(ctx, id)
		assert.Error(t, err, "aged records are removed regardless of status")
	}
	repo.mustGet(t, freshCompleted)
	repo.mustGet(t, freshSent)

	t.Run("second sweep removes nothing", func(t *testing.T) {
		removed, err := handler.Handle(ctx, cmd)
		require.NoError(t, err)
		assert.Zero(t, removed)
	})
}

func TestPurgeHistoryCommandHandler_Handle_SkipsLockedRecords(t *testing.T) {
	ctx := t.Context()
	repo := newFakeHistoryRepo()
	old := time.Now().UTC().Add(-48 * time.Hour)

	locked := seedRecord(t, repo, order.Completed, old)
	free := seedRecord(t, repo, order.Completed, old)

	locks := idlock.NewRegistry()
	release, err := locks.TryAcquire(locked.String())
	require.NoError(t, err)

	handler := commands.NewPurgeHistoryCommandHandler(&fakeUoWFactory{repo: repo}, locks)
	cmd, err := commands.NewPurgeHistoryCommand(24 * time.Hour)
	require.NoError(t, err)

	removed, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	repo.mustGet(t, locked)
	_, err = repo.Get(ctx, free)
	assert.Error(t, err)

	release()
	removed, err = handler.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 1, removed, "the skipped record is picked up by the next sweep")
}
