package commands

import (
	"errors"

	"osrorders/internal/core/domain/model/kernel"
	"osrorders/internal/pkg/guard"
)

var (
	ErrRefreshStatusCommandIsNotConstructed = errors.New(
		"RefreshStatusCommand must be created via NewRefreshStatusCommand constructor",
	)
)

// RefreshStatusCommand represents a request to reconcile a record's status
// with the remote system.
type RefreshStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRefreshStatusCommand creates a command to refresh an order's status.
// Validates that the order ID is valid.
func NewRefreshStatusCommand(orderID kernel.UUID) (RefreshStatusCommand, error) {
	if err := orderID.Validate(); err != nil {
		return RefreshStatusCommand{}, err
	}

	return RefreshStatusCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RefreshStatusCommand) Validate() error {
	return c.guard.Validate(ErrRefreshStatusCommandIsNotConstructed)
}

// OrderID returns the identifier of the record to refresh.
func (c RefreshStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}
