package order

import (
	"fmt"

	"osrorders/internal/pkg/errs"
)

// Status represents the lifecycle state of a submitted order record.
// It implements a state machine with defined transitions so that history
// never records an impossible progression.
//
// State transitions:
//
//	Pending ──┬──> Sent ──┬──> Completed
//	          │     │ ^   ├──> Cancelled
//	          │     v │   │
//	          │   Unknown ┤ (refresh failure / recovery)
//	          │      │    │
//	          └──────┴────┴──> Failed
//
// Pending becomes Sent on confirmed remote acceptance or Failed when the
// retry ceiling is exhausted. Sent drops to Unknown when a status refresh
// cannot reach the remote system; a later successful refresh recovers it.
// Completed, Cancelled, and Failed are terminal.
type Status int

const (
	// Undefined represents an invalid or uninitialized status.
	// This value (0) helps catch uninitialized Status values.
	Undefined Status = iota

	// Pending is the initial status of an accepted submission before the
	// remote system has confirmed receipt.
	Pending

	// Sent indicates the remote system accepted the order and returned a
	// correlation reference.
	Sent

	// Completed indicates the remote system reported the order as processed.
	Completed

	// Cancelled indicates a confirmed cancellation. Final state.
	Cancelled

	// Failed indicates exhausted retries or a permanent rejection. Final state.
	Failed

	// Unknown indicates the last status refresh could not reach the remote
	// system; the correlation reference is retained for recovery.
	Unknown
)

// getStatusStrings returns the map of Status values to their serialized names.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Undefined: "Undefined",
		Pending:   "Pending",
		Sent:      "Sent",
		Completed: "Completed",
		Cancelled: "Cancelled",
		Failed:    "Failed",
		Unknown:   "Unknown",
	}
}

// getValidStatusStrings returns only the statuses a persisted record may hold.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Undefined is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "Pending",
		Sent:      "Sent",
		Completed: "Completed",
		Cancelled: "Cancelled",
		Failed:    "Failed",
		Unknown:   "Unknown",
	}
}

// Validate checks that the Status value is one a record may hold.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the serialized name of the status, or "Undefined" for
// invalid values. Implements fmt.Stringer. History persists this name, so
// it is part of the audit contract.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Undefined"
}

// StatusFromName parses a serialized status name as produced by String.
func StatusFromName(name string) (Status, error) {
	for status, s := range getValidStatusStrings() {
		if s == name {
			return status, nil
		}
	}
	return Undefined, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", name))
}

// IsTerminal reports whether the status permits no further transitions
// besides removal by the retention sweeper.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled || s == Failed
}

// CanRefresh reports whether a status query against the remote system is
// meaningful for this status. Only orders the remote system has accepted
// (or whose contact was lost) can be refreshed.
func (s Status) CanRefresh() bool {
	return s == Sent || s == Unknown
}

// ValidateCancellable checks that an order in this status may be cancelled.
// Only Sent orders are cancellable; anything else is rejected before the
// remote system is contacted.
func (s Status) ValidateCancellable() error {
	if s != Sent {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to cancel", s.String()),
		)
	}
	return nil
}

// Send transitions the status to Sent.
//
// Valid transitions:
//   - Pending -> Sent (confirmed remote acceptance)
//   - Unknown -> Sent (successful refresh after lost contact)
//   - Sent -> Sent (refresh confirming the order is still in progress)
func (s Status) Send() (Status, error) {
	if s != Pending && s != Unknown && s != Sent {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to mark sent", s.String()),
		)
	}
	return Sent, nil
}

// Fail transitions the status to Failed.
//
// Valid transitions:
//   - Pending -> Failed (retry ceiling exhausted or permanent rejection)
//   - Unknown -> Failed (refresh revealed a remote-side failure)
func (s Status) Fail() (Status, error) {
	if s != Pending && s != Unknown {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to fail", s.String()),
		)
	}
	return Failed, nil
}

// Cancel transitions the status to Cancelled.
//
// Valid transitions:
//   - Sent -> Cancelled (confirmed cancellation)
//   - Unknown -> Cancelled (refresh revealed a remote-side cancellation)
func (s Status) Cancel() (Status, error) {
	if s != Sent && s != Unknown {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to cancel", s.String()),
		)
	}
	return Cancelled, nil
}

// Complete transitions the status to Completed.
//
// Valid transitions:
//   - Sent -> Completed (remote system reported completion)
//   - Unknown -> Completed (refresh revealed remote-side completion)
func (s Status) Complete() (Status, error) {
	if s != Sent && s != Unknown {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to complete", s.String()),
		)
	}
	return Completed, nil
}

// MarkUnknown transitions the status to Unknown after a failed refresh.
//
// Valid transitions:
//   - Sent -> Unknown (status query could not reach the remote system)
//   - Unknown -> Unknown (still unreachable)
func (s Status) MarkUnknown() (Status, error) {
	if s != Sent && s != Unknown {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to mark unknown", s.String()),
		)
	}
	return Unknown, nil
}
