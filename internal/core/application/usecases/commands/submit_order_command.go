package commands

import (
	"errors"

	"osrorders/internal/core/domain/model/kernel"
	"osrorders/internal/core/domain/model/order"
	"osrorders/internal/pkg/guard"
)

var (
	ErrSubmitOrderCommandIsNotConstructed = errors.New(
		"SubmitOrderCommand must be created via NewSubmitOrderCommand constructor",
	)
)

// SubmitOrderCommand represents a request to build and transmit a new order.
// Encapsulates the record identifier and the operator-supplied order spec.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewSubmitOrderCommand(orderID, spec)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewSubmitOrderCommandHandler(uowFactory, gateway, builder, locks, policy)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to submit order: %w", err)
//	}
type SubmitOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	spec    order.OrderSpec

	guard guard.ConstructorGuard
}

// NewSubmitOrderCommand creates a command to submit a new order.
// Validates that the order ID is valid and the spec was properly constructed.
func NewSubmitOrderCommand(orderID kernel.UUID, spec order.OrderSpec) (SubmitOrderCommand, error) {
	submitCommand := SubmitOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		submitCommand.setOrderID(orderID),
		submitCommand.setSpec(spec),
	); err != nil {
		return SubmitOrderCommand{}, err
	}

	return submitCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitOrderCommand) Validate() error {
	return c.guard.Validate(ErrSubmitOrderCommandIsNotConstructed)
}

// OrderID returns the identifier assigned to the history record.
func (c SubmitOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Spec returns the operator-supplied order spec.
func (c SubmitOrderCommand) Spec() order.OrderSpec {
	return c.spec
}

func (c *SubmitOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *SubmitOrderCommand) setSpec(spec order.OrderSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	c.spec = spec
	return nil
}
