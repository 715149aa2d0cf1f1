package queries

import (
	"errors"
	"time"

	"osrorders/internal/core/domain/model/kernel"
	"osrorders/internal/core/domain/model/order"
	"osrorders/internal/pkg/guard"
)

var (
	ErrListOrdersQueryIsNotConstructed = errors.New(
		"ListOrdersQuery must be created via NewListOrdersQuery constructor",
	)
)

// ListOrdersQuery retrieves history records, optionally narrowed to a set
// of statuses, most recently updated first.
//
// Example:
//
//	query, err := NewListOrdersQuery(order.Sent, order.Unknown)
//	if err != nil {
//	    return err
//	}
//	handler := NewListOrdersQueryHandler(db)
//	records, err := handler.Handle(ctx, query)
type ListOrdersQuery struct {
	statuses []order.Status

	guard guard.ConstructorGuard
}

// NewListOrdersQuery creates a query for history records. With no statuses
// the full history is returned; otherwise only records in one of the given
// statuses.
func NewListOrdersQuery(statuses ...order.Status) (ListOrdersQuery, error) {
	for _, status := range statuses {
		if err := status.Validate(); err != nil {
			return ListOrdersQuery{}, err
		}
	}

	return ListOrdersQuery{
		statuses: statuses,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// Statuses returns the status filter, or an empty slice for no filter.
func (q ListOrdersQuery) Statuses() []order.Status {
	return q.statuses
}

// ListOrdersQueryResponse is the summary view of one history record.
// The document payload is omitted; use GetOrderQuery for the full record.
type ListOrdersQueryResponse struct {
	ID              kernel.UUID
	OrderNumber     string
	Kind            string
	Status          string
	RemoteReference string
	Attempts        int
	LastError       string
	CreatedAt       time.Time
	LastUpdatedAt   time.Time
}
