package commands_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"osrorders/internal/core/application/usecases/commands"
	"osrorders/internal/core/domain/model/order"
	"osrorders/internal/core/ports"
	"osrorders/internal/pkg/idlock"
)

func newRefreshHandler(repo *fakeHistoryRepo, gateway ports.OsrGateway) commands.RefreshStatusCommandHandler {
	return commands.NewRefreshStatusCommandHandler(
		&fakeUoWFactory{repo: repo}, gateway, idlock.NewRegistry())
}

func TestRefreshStatusCommandHandler_Handle_RemoteStatusMapping(t *testing.T) {
	ctx := t.Context()

	tests := []struct {
		name       string
		seed       order.Status
		remote     ports.RemoteStatus
		wantStatus order.Status
	}{
		{"processing keeps sent", order.Sent, ports.RemoteStatusProcessing, order.Sent},
		{"completed", order.Sent, ports.RemoteStatusCompleted, order.Completed},
		{"cancelled remotely", order.Sent, ports.RemoteStatusCancelled, order.Cancelled},
		{"unknown recovers to sent", order.Unknown, ports.RemoteStatusProcessing, order.Sent},
		{"unknown recovers to completed", order.Unknown, ports.RemoteStatusCompleted, order.Completed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeHistoryRepo()
			id := seedRecord(t, repo, tt.seed, time.Now().UTC())

			gateway := new(MockOsrGateway)
			gateway.On("QueryStatus", mock.Anything, ports.RemoteReference("osr-42")).
				Return(tt.remote, nil).Once()

			handler := newRefreshHandler(repo, gateway)
			cmd, err := commands.NewRefreshStatusCommand(id)
			require.NoError(t, err)
			require.NoError(t, handler.Handle(ctx, cmd))

			record := repo.mustGet(t, id)
			assert.Equal(t, tt.wantStatus, record.Status())
			assert.Equal(t, "osr-42", record.RemoteReference(),
				"reference survives every refresh outcome")
			gateway.AssertExpectations(t)
		})
	}
}

func TestRefreshStatusCommandHandler_Handle_QueryFailureMarksUnknown(t *testing.T) {
	ctx := t.Context()
	repo := newFakeHistoryRepo()
	id := seedRecord(t, repo, order.Sent, time.Now().UTC())

	gateway := new(MockOsrGateway)
	gateway.On("QueryStatus", mock.Anything, mock.Anything).
		Return(ports.RemoteStatusUndefined,
			ports.NewTransientError("query", errors.New("connection refused"))).Once()

	handler := newRefreshHandler(repo, gateway)
	cmd, err := commands.NewRefreshStatusCommand(id)
	require.NoError(t, err)

	err = handler.Handle(ctx, cmd)
	require.Error(t, err, "the transport failure is still surfaced")
	assert.True(t, ports.IsTransient(err))

	record := repo.mustGet(t, id)
	assert.Equal(t, order.Unknown, record.Status())
	assert.Equal(t, "osr-42", record.RemoteReference())
	assert.Contains(t, record.LastError(), "connection refused")
}

func TestRefreshStatusCommandHandler_Handle_NotRefreshable(t *testing.T) {
	ctx := t.Context()

	for _, status := range []order.Status{order.Pending, order.Completed, order.Cancelled, order.Failed} {
		t.Run(status.String(), func(t *testing.T) {
			repo := newFakeHistoryRepo()
			id := seedRecord(t, repo, status, time.Now().UTC())

			gateway := new(MockOsrGateway)
			handler := newRefreshHandler(repo, gateway)

			cmd, err := commands.NewRefreshStatusCommand(id)
			require.NoError(t, err)

			err = handler.Handle(ctx, cmd)
			assert.ErrorIs(t, err, commands.ErrOrderNotRefreshable)
			gateway.AssertNotCalled(t, "QueryStatus", mock.Anything, mock.Anything)
		})
	}
}
