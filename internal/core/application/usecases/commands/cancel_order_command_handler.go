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

var (
	// ErrOrderNotCancellable is returned when the record's status does not
	// permit cancellation. The remote system is never contacted.
	ErrOrderNotCancellable = errors.New("order is not in a cancellable status")

	// ErrCancelRejected is returned when the remote system permanently
	// refused the cancellation, usually because processing already started.
	// The record keeps its Sent status.
	ErrCancelRejected = errors.New("remote system rejected the cancellation")
)

// CancelOrderCommandHandler handles the business logic for order
// cancellation. Only Sent records may be cancelled; the cancellation is
// confirmed by the remote system before the record transitions.
type CancelOrderCommandHandler struct {
	uowFactory HistoryUoWFactory
	gateway    ports.OsrGateway
	locks      *idlock.Registry
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(
	uowFactory HistoryUoWFactory,
	gateway ports.OsrGateway,
	locks *idlock.Registry,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		locks:      locks,
	}
}

// Handle processes the cancellation command.
//
// The status precondition is checked before the remote call, and the record
// transitions to Cancelled only after the remote system confirmed. A
// transient transport failure leaves the record in Sent status so the
// operator can retry.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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

	if err = record.Status().ValidateCancellable(); err != nil {
		return fmt.Errorf("%w: %s", ErrOrderNotCancellable, err)
	}

	if err = h.gateway.Cancel(ctx, ports.RemoteReference(record.RemoteReference())); err != nil {
		if ports.IsPermanent(err) {
			return fmt.Errorf("%w: %s", ErrCancelRejected, err)
		}
		return err
	}

	if err = record.MarkCancelled(time.Now().UTC()); err != nil {
		return err
	}

	return h.updateRecord(ctx, record)
}

func (h *CancelOrderCommandHandler) getRecord(ctx context.Context, cmd CancelOrderCommand) (*order.Record, error) {
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

func (h *CancelOrderCommandHandler) updateRecord(ctx context.Context, record *order.Record) error {
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
