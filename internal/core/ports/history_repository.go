package ports

import (
	"context"
	"errors"
	"time"

	"osrorders/internal/core/domain/model/kernel"
	"osrorders/internal/core/domain/model/order"
)

// ErrRecordAlreadyExists is returned by Add when a record with the same
// identifier is already stored. Identifiers are never reused, so a duplicate
// always indicates a caller bug.
var ErrRecordAlreadyExists = errors.New("history record already exists")

// HistoryFilter narrows List results. Zero-value fields are ignored.
type HistoryFilter struct {
	// Statuses keeps only records in one of the given statuses.
	Statuses []order.Status

	// UpdatedBefore keeps only records last updated strictly before
	// the given instant.
	UpdatedBefore time.Time
}

// HistoryRepository defines the persistence contract for order history
// records. The history is the durable audit log of every submission;
// repositories must never lose a record outside of an explicit Remove.
type HistoryRepository interface {
	// Add persists a new history record.
	// Returns ErrRecordAlreadyExists if the identifier is already stored.
	Add(ctx context.Context, record *order.Record) error

	// Update persists changes to an existing record, including fields
	// cleared back to their zero value.
	Update(ctx context.Context, record *order.Record) error

	// Get retrieves a record by its identifier.
	// Returns errs.ObjectNotFoundError if no such record exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Record, error)

	// List retrieves the records matching the filter, most recently
	// updated first.
	List(ctx context.Context, filter HistoryFilter) ([]*order.Record, error)

	// Remove deletes a record by its identifier. Removing an absent
	// record is not an error.
	Remove(ctx context.Context, id kernel.UUID) error
}
