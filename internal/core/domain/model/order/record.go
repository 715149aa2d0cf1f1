package order

import (
	"errors"
	"strings"
	"time"

	"osrorders/internal/core/domain/model/kernel"
	"osrorders/internal/pkg/errs"
	"osrorders/internal/pkg/guard"
)

var ErrRecordIsNotConstructed = errors.New(
	"Record must be created via NewRecord or RestoreRecord",
)

// Record is the aggregate root of the order history. It captures the exact
// document that was (or will be) sent, the lifecycle status, the remote
// correlation reference, and an audit trail of attempts and timestamps.
//
// A record is created in Pending status from a finalized document and then
// advanced through the Status state machine. The document snapshot never
// changes after creation; amending an order means submitting a new record.
type Record struct {
	id          kernel.UUID
	orderNumber string
	kind        Kind
	document    string
	status      Status

	remoteReference string
	attempts        int
	lastError       string

	createdAt     time.Time
	lastUpdatedAt time.Time

	guard guard.ConstructorGuard
}

// NewRecord creates a Pending record from a finalized document.
func NewRecord(id kernel.UUID, doc *Document, now time.Time) (*Record, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errs.NewValueIsRequiredError("doc")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if doc.State() != Finalized {
		return nil, errs.NewValueIsInvalidErrorWithCause("doc",
			errors.New("only a finalized document can be recorded"))
	}
	payload, err := doc.XML()
	if err != nil {
		return nil, err
	}
	if now.IsZero() {
		return nil, errs.NewValueIsRequiredError("now")
	}

	return &Record{
		id:          id,
		orderNumber: doc.OrderNumber(),
		kind:        doc.Kind(),
		document:    payload,
		status:      Pending,

		createdAt:     now,
		lastUpdatedAt: now,

		guard: guard.NewConstructorGuard(),
	}, nil
}

// RestoreRecord reconstructs a record from persistence without revalidating
// business rules that held at creation time.
func RestoreRecord(
	id kernel.UUID,
	orderNumber string,
	kind Kind,
	document string,
	status Status,
	remoteReference string,
	attempts int,
	lastError string,
	createdAt time.Time,
	lastUpdatedAt time.Time,
) *Record {
	return &Record{
		id:          id,
		orderNumber: orderNumber,
		kind:        kind,
		document:    document,
		status:      status,

		remoteReference: remoteReference,
		attempts:        attempts,
		lastError:       lastError,

		createdAt:     createdAt,
		lastUpdatedAt: lastUpdatedAt,

		guard: guard.NewConstructorGuard(),
	}
}

// ID returns the record identifier.
func (r *Record) ID() kernel.UUID {
	return r.id
}

// OrderNumber returns the fully qualified order number of the document.
func (r *Record) OrderNumber() string {
	return r.orderNumber
}

// Kind returns the order kind.
func (r *Record) Kind() Kind {
	return r.kind
}

// Document returns the immutable XML snapshot captured at creation time.
func (r *Record) Document() string {
	return r.document
}

// Status returns the current lifecycle status.
func (r *Record) Status() Status {
	return r.status
}

// RemoteReference returns the correlation reference assigned by the remote
// system, or the empty string while the record is Pending or Failed.
func (r *Record) RemoteReference() string {
	return r.remoteReference
}

// Attempts returns how many transmissions have been started.
func (r *Record) Attempts() int {
	return r.attempts
}

// LastError returns the most recent transmission or refresh error, or the
// empty string after a successful transition.
func (r *Record) LastError() string {
	return r.lastError
}

// CreatedAt returns when the record was created.
func (r *Record) CreatedAt() time.Time {
	return r.createdAt
}

// LastUpdatedAt returns when the record last changed.
func (r *Record) LastUpdatedAt() time.Time {
	return r.lastUpdatedAt
}

// RegisterAttempt records the start of one transmission attempt.
// Only a Pending record may register attempts.
func (r *Record) RegisterAttempt(reason string, at time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.status != Pending {
		return errs.NewValueIsInvalidErrorWithCause("status",
			errors.New(r.status.String()+" records do not register attempts"))
	}
	r.attempts++
	r.lastError = sanitizeReason(reason)
	r.lastUpdatedAt = at
	return nil
}

// MarkSent transitions the record to Sent with the remote correlation
// reference. The reference must be non-empty.
func (r *Record) MarkSent(remoteReference string, at time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(remoteReference) == "" {
		return errs.NewValueIsRequiredError("remoteReference")
	}
	next, err := r.status.Send()
	if err != nil {
		return err
	}
	r.status = next
	r.remoteReference = remoteReference
	r.lastError = ""
	r.lastUpdatedAt = at
	return nil
}

// MarkFailed transitions the record to Failed, keeping the reason for audit.
func (r *Record) MarkFailed(reason string, at time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}
	next, err := r.status.Fail()
	if err != nil {
		return err
	}
	r.status = next
	r.lastError = sanitizeReason(reason)
	r.lastUpdatedAt = at
	return nil
}

// MarkCancelled transitions the record to Cancelled.
func (r *Record) MarkCancelled(at time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}
	next, err := r.status.Cancel()
	if err != nil {
		return err
	}
	r.status = next
	r.lastError = ""
	r.lastUpdatedAt = at
	return nil
}

// MarkCompleted transitions the record to Completed.
func (r *Record) MarkCompleted(at time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}
	next, err := r.status.Complete()
	if err != nil {
		return err
	}
	r.status = next
	r.lastError = ""
	r.lastUpdatedAt = at
	return nil
}

// MarkUnknown transitions the record to Unknown after a refresh failure,
// keeping the correlation reference for later recovery.
func (r *Record) MarkUnknown(reason string, at time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}
	next, err := r.status.MarkUnknown()
	if err != nil {
		return err
	}
	r.status = next
	r.lastError = sanitizeReason(reason)
	r.lastUpdatedAt = at
	return nil
}

// Validate checks that the record was created through a constructor.
func (r *Record) Validate() error {
	return r.guard.Validate(ErrRecordIsNotConstructed)
}

// sanitizeReason flattens the reason to a single line for storage.
func sanitizeReason(reason string) string {
	return strings.Join(strings.Fields(reason), " ")
}
