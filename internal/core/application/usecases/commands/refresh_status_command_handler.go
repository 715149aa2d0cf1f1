package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"osrorders/internal/core/domain/model/order"
	"osrorders/internal/core/ports"
	"osrorders/internal/pkg/idlock"
)

// ErrOrderNotRefreshable is returned when the record's status permits no
// status query: only Sent and Unknown records can be refreshed.
var ErrOrderNotRefreshable = errors.New("order status cannot be refreshed")

// RefreshStatusCommandHandler reconciles a record with the remote system.
// A reachable remote system advances the record (Sent, Completed, or
// Cancelled); an unreachable one drops it to Unknown while keeping the
// correlation reference, so a later refresh can recover it.
type RefreshStatusCommandHandler struct {
	uowFactory HistoryUoWFactory
	gateway    ports.OsrGateway
	locks      *idlock.Registry
}

// NewRefreshStatusCommandHandler creates a handler for status refresh.
func NewRefreshStatusCommandHandler(
	uowFactory HistoryUoWFactory,
	gateway ports.OsrGateway,
	locks *idlock.Registry,
) RefreshStatusCommandHandler {
	return RefreshStatusCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		locks:      locks,
	}
}

// Handle processes the refresh command. The query failure path persists the
// Unknown status and still returns the transport error, so callers see the
// failure while history records the lost contact.
func (h *RefreshStatusCommandHandler) Handle(ctx context.Context, cmd RefreshStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	release, err := h.locks.TryAcquire(cmd.OrderID().String())
	if err != nil {
		return fmt.Errorf("%w: %s", ErrOrderBusy, cmd.OrderID())
	}
	defer release()

	record, err := h.getRecord(ctx, cmd)
	if err != nil {
		return err
	}

	if !record.Status().CanRefresh() {
		return fmt.Errorf("%w: status is %s", ErrOrderNotRefreshable, record.Status())
	}

	remoteStatus, err := h.gateway.QueryStatus(ctx, ports.RemoteReference(record.RemoteReference()))
	if err != nil {
		if markErr := record.MarkUnknown(err.Error(), time.Now().UTC()); markErr != nil {
			return errors.Join(err, markErr)
		}
		if updateErr := h.updateRecord(context.WithoutCancel(ctx), record); updateErr != nil {
			return errors.Join(err, updateErr)
		}
		return err
	}

	if err = h.applyRemoteStatus(record, remoteStatus); err != nil {
		return err
	}

	return h.updateRecord(ctx, record)
}

func (h *RefreshStatusCommandHandler) applyRemoteStatus(record *order.Record, remoteStatus ports.RemoteStatus) error {
	now := time.Now().UTC()
	switch remoteStatus {
	case ports.RemoteStatusProcessing:
		return record.MarkSent(record.RemoteReference(), now)
	case ports.RemoteStatusCompleted:
		return record.MarkCompleted(now)
	case ports.RemoteStatusCancelled:
		return record.MarkCancelled(now)
	default:
		return fmt.Errorf("remote system reported unsupported status %s", remoteStatus)
	}
}

func (h *RefreshStatusCommandHandler) getRecord(ctx context.Context, cmd RefreshStatusCommand) (*order.Record, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	record, err := uow.HistoryRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return record, nil
}

func (h *RefreshStatusCommandHandler) updateRecord(ctx context.Context, record *order.Record) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.HistoryRepository().Update(ctx, record); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
