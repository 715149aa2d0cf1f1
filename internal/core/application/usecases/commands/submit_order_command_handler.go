package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"osrorders/internal/core/domain/model/order"
	"osrorders/internal/core/ports"
	"osrorders/internal/pkg/idlock"
	"osrorders/internal/pkg/retry"
)

// ErrOrderBusy is returned when another operation currently holds the lock
// for the same order. The caller may retry once the running operation
// finishes; nothing was changed.
var ErrOrderBusy = errors.New("another operation is in progress for this order")

// SubmissionError reports a submission that ended in Failed status. The
// record with the full audit trail remains in history.
type SubmissionError struct {
	OrderNumber string
	Attempts    int
	Cause       error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission of %s failed after %d attempt(s): %s",
		e.OrderNumber, e.Attempts, e.Cause)
}

func (e *SubmissionError) Unwrap() error {
	return e.Cause
}

// SubmitPolicy controls the retry behavior of order submission.
type SubmitPolicy struct {
	// MaxAttempts is the transmission ceiling per submission.
	MaxAttempts int

	// BackoffBase is the delay before the second attempt; it doubles per
	// attempt up to BackoffCap.
	BackoffBase time.Duration
	BackoffCap  time.Duration
}

// DefaultSubmitPolicy returns the production retry policy.
func DefaultSubmitPolicy() SubmitPolicy {
	return SubmitPolicy{
		MaxAttempts: 3,
		BackoffBase: 500 * time.Millisecond,
		BackoffCap:  5 * time.Second,
	}
}

func (p SubmitPolicy) validate() error {
	if p.MaxAttempts < 1 {
		return errors.New("submit policy: MaxAttempts must be at least 1")
	}
	if p.BackoffBase <= 0 || p.BackoffCap < p.BackoffBase {
		return errors.New("submit policy: backoff range is invalid")
	}
	return nil
}

// SubmitOrderCommandHandler handles the business logic for order submission.
// Builds the document, persists a Pending record, and drives the
// transmission attempts until the record reaches Sent or Failed.
//
// The record is persisted before the first network call, so a crash mid
// submission leaves an auditable Pending record rather than nothing.
type SubmitOrderCommandHandler struct {
	uowFactory HistoryUoWFactory
	gateway    ports.OsrGateway
	builder    order.DocumentBuilder
	locks      *idlock.Registry
	policy     SubmitPolicy
}

// NewSubmitOrderCommandHandler creates a handler for order submission.
func NewSubmitOrderCommandHandler(
	uowFactory HistoryUoWFactory,
	gateway ports.OsrGateway,
	builder order.DocumentBuilder,
	locks *idlock.Registry,
	policy SubmitPolicy,
) (SubmitOrderCommandHandler, error) {
	if err := builder.Validate(); err != nil {
		return SubmitOrderCommandHandler{}, err
	}
	if err := policy.validate(); err != nil {
		return SubmitOrderCommandHandler{}, err
	}

	return SubmitOrderCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		builder:    builder,
		locks:      locks,
		policy:     policy,
	}, nil
}

// Handle processes the order submission command.
//
// Flow: acquire the per-order lock, build and finalize the document, persist
// the Pending record, then transmit. Dry-run specs skip transmission and are
// marked Sent with a synthetic reference. Transient transport failures are
// retried with exponential backoff up to the policy ceiling; permanent
// failures and exhausted retries mark the record Failed and return a
// *SubmissionError.
func (h *SubmitOrderCommandHandler) Handle(ctx context.Context, cmd SubmitOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	release, err := h.locks.TryAcquire(cmd.OrderID().String())
	if err != nil {
		return fmt.Errorf("%w: %s", ErrOrderBusy, cmd.OrderID())
	}
	defer release()

	doc, err := h.builder.Build(cmd.Spec())
	if err != nil {
		return err
	}
	if err = doc.Finalize(); err != nil {
		return err
	}

	record, err := order.NewRecord(cmd.OrderID(), doc, time.Now().UTC())
	if err != nil {
		return err
	}

	if err = h.addRecord(ctx, record); err != nil {
		return err
	}

	if cmd.Spec().DryRun() {
		return h.completeDryRun(ctx, record)
	}

	return h.transmit(ctx, record)
}

// completeDryRun marks a rehearsal record Sent with a synthetic reference
// without contacting the remote system.
func (h *SubmitOrderCommandHandler) completeDryRun(ctx context.Context, record *order.Record) error {
	ref := fmt.Sprintf("dry-run-%s", record.OrderNumber())
	if err := record.MarkSent(ref, time.Now().UTC()); err != nil {
		return err
	}
	return h.updateRecord(ctx, record)
}

// transmit drives the attempt loop. Each attempt is registered on the record
// and persisted before the network call; the reason of a retried failure is
// captured by the next attempt's registration.
func (h *SubmitOrderCommandHandler) transmit(ctx context.Context, record *order.Record) error {
	var lastReason string

	for attempt := 1; ; attempt++ {
		if err := record.RegisterAttempt(lastReason, time.Now().UTC()); err != nil {
			return err
		}
		if err := h.updateRecord(ctx, record); err != nil {
			return err
		}

		ref, err := h.gateway.Send(ctx, record.Document())
		if err == nil {
			if err = record.MarkSent(string(ref), time.Now().UTC()); err != nil {
				return err
			}
			return h.updateRecord(ctx, record)
		}

		if ports.IsPermanent(err) {
			return h.fail(ctx, record, err)
		}
		if attempt >= h.policy.MaxAttempts {
			return h.fail(ctx, record,
				fmt.Errorf("retries exhausted after %d attempts: %w", attempt, err))
		}

		lastReason = err.Error()
		delay := retry.Backoff(h.policy.BackoffBase, h.policy.BackoffCap, attempt)
		if waitErr := retry.Wait(ctx, delay); waitErr != nil {
			return h.fail(ctx, record, fmt.Errorf("submission aborted: %w", waitErr))
		}
	}
}

// fail marks the record Failed and persists it even when ctx is already
// cancelled, so the audit trail survives an aborted submission.
func (h *SubmitOrderCommandHandler) fail(ctx context.Context, record *order.Record, cause error) error {
	if err := record.MarkFailed(cause.Error(), time.Now().UTC()); err != nil {
		return errors.Join(cause, err)
	}
	if err := h.updateRecord(context.WithoutCancel(ctx), record); err != nil {
		return errors.Join(cause, err)
	}
	return &SubmissionError{
		OrderNumber: record.OrderNumber(),
		Attempts:    record.Attempts(),
		Cause:       cause,
	}
}

func (h *SubmitOrderCommandHandler) addRecord(ctx context.Context, record *order.Record) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.HistoryRepository().Add(ctx, record); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h *SubmitOrderCommandHandler) updateRecord(ctx context.Context, record *order.Record) error {
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
