// Package queries contains read-only operations over the order history.
// Implements the Query pattern for the read side of the CQRS architecture.
// Query handlers bypass the repositories and read the database directly.
package queries

import (
	"errors"
	"time"

	"osrorders/internal/core/domain/model/kernel"
	"osrorders/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery retrieves the full history record of a single order,
// including the exact document payload that was sent.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//	handler := NewGetOrderQueryHandler(db)
//	record, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for a single history record.
// Validates that the order ID is valid.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the identifier of the record to fetch.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse is the full view of one history record.
type GetOrderQueryResponse struct {
	ID              kernel.UUID
	OrderNumber     string
	Kind            string
	Status          string
	Document        string
	RemoteReference string
	Attempts        int
	LastError       string
	CreatedAt       time.Time
	LastUpdatedAt   time.Time
}
