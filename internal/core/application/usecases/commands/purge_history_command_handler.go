package commands

import (
	"context"
	"time"

	"osrorders/internal/core/domain/model/order"
	"osrorders/internal/core/ports"
	"osrorders/internal/pkg/idlock"
)

// PurgeHistoryCommandHandler removes records past their retention age,
// regardless of status. A record whose per-id lock is held belongs to a
// running operation and is skipped until the next sweep.
type PurgeHistoryCommandHandler struct {
	uowFactory HistoryUoWFactory
	locks      *idlock.Registry
}

// NewPurgeHistoryCommandHandler creates a handler for history retention.
func NewPurgeHistoryCommandHandler(
	uowFactory HistoryUoWFactory,
	locks *idlock.Registry,
) PurgeHistoryCommandHandler {
	return PurgeHistoryCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
	}
}

// Handle processes the purge command and returns how many records were
// removed. Records locked by a concurrent operation are skipped and picked
// up by the next sweep; each removal runs in its own transaction, so one
// failure does not abort the sweep.
func (h *PurgeHistoryCommandHandler) Handle(ctx context.Context, cmd PurgeHistoryCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	cutoff := time.Now().UTC().Add(-cmd.MaxAge())
	candidates, err := h.listExpired(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, record := range candidates {
		release, err := h.locks.TryAcquire(record.ID().String())
		if err != nil {
			continue
		}

		err = h.removeRecord(ctx, record)
		release()
		if err != nil {
			return removed, err
		}
		removed++
	}

	return removed, nil
}

func (h *PurgeHistoryCommandHandler) listExpired(ctx context.Context, cutoff time.Time) ([]*order.Record, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	records, err := uow.HistoryRepository().List(ctx, ports.HistoryFilter{
		UpdatedBefore: cutoff,
	})
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return records, nil
}

func (h *PurgeHistoryCommandHandler) removeRecord(ctx context.Context, record *order.Record) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.HistoryRepository().Remove(ctx, record.ID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
