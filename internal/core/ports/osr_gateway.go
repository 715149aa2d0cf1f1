package ports

import (
	"context"
	"errors"
	"fmt"
)

// RemoteReference is the opaque correlation token the remote OSR assigns to
// an accepted order. It is required for cancellation and status queries.
type RemoteReference string

// RemoteStatus is the order state as reported by the remote OSR.
type RemoteStatus int

const (
	// RemoteStatusUndefined represents an invalid or unparsed remote status.
	RemoteStatusUndefined RemoteStatus = iota

	// RemoteStatusProcessing means the order is still being worked on.
	RemoteStatusProcessing

	// RemoteStatusCompleted means the order has been fully processed.
	RemoteStatusCompleted

	// RemoteStatusCancelled means the order was cancelled remotely.
	RemoteStatusCancelled
)

// String returns the name of the remote status.
func (s RemoteStatus) String() string {
	switch s {
	case RemoteStatusProcessing:
		return "Processing"
	case RemoteStatusCompleted:
		return "Completed"
	case RemoteStatusCancelled:
		return "Cancelled"
	default:
		return "Undefined"
	}
}

// ErrorClass divides transport failures into the two classes the retry
// policy distinguishes.
type ErrorClass int

const (
	// Transient marks failures worth retrying: timeouts, connection
	// failures, remote overload.
	Transient ErrorClass = iota + 1

	// Permanent marks failures that will not succeed on retry: schema
	// rejections, unknown references, authorization failures.
	Permanent
)

// String returns the name of the error class.
func (c ErrorClass) String() string {
	switch c {
	case Transient:
		return "transient"
	case Permanent:
		return "permanent"
	default:
		return "undefined"
	}
}

// TransportError wraps a gateway failure with its retry classification and
// the operation that produced it.
type TransportError struct {
	Class ErrorClass
	Op    string
	Cause error
}

// NewTransientError creates a retryable transport error.
func NewTransientError(op string, cause error) *TransportError {
	return &TransportError{Class: Transient, Op: op, Cause: cause}
}

// NewPermanentError creates a non-retryable transport error.
func NewPermanentError(op string, cause error) *TransportError {
	return &TransportError{Class: Permanent, Op: op, Cause: cause}
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s failure: %s", e.Op, e.Class, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// IsTransient reports whether err is a transport error worth retrying.
func IsTransient(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr) && transportErr.Class == Transient
}

// IsPermanent reports whether err is a transport error that will not
// succeed on retry.
func IsPermanent(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr) && transportErr.Class == Permanent
}

// OsrGateway is the outbound port to the remote OSR system. Implementations
// classify every failure as Transient or Permanent via TransportError and
// honor context cancellation on all calls.
type OsrGateway interface {
	// Send transmits a finalized order document and returns the remote
	// correlation reference on acceptance.
	Send(ctx context.Context, document string) (RemoteReference, error)

	// Cancel requests cancellation of a previously accepted order.
	Cancel(ctx context.Context, ref RemoteReference) error

	// QueryStatus fetches the current remote state of an accepted order.
	QueryStatus(ctx context.Context, ref RemoteReference) (RemoteStatus, error)
}
