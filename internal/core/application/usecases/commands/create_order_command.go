package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderCommand represents an intake request for a new order. The
// delivery location is optional: geocoding may still be pending, in which
// case the order enters the system with unresolved coordinates.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	location *kernel.GeoPoint
	from     time.Time
	to       time.Time

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order with its
// delivery window. location may be nil for not-yet-geocoded addresses.
func NewCreateOrderCommand(orderID kernel.UUID, location *kernel.GeoPoint, from, to time.Time) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setLocation(location),
		orderCommand.setWindow(from, to),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Location returns the delivery position, or nil while unresolved.
func (c CreateOrderCommand) Location() *kernel.GeoPoint {
	return c.location
}

// Window returns the delivery time window.
func (c CreateOrderCommand) Window() (kernel.TimeWindow, error) {
	return kernel.NewTimeWindow(c.from, c.to)
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setLocation(location *kernel.GeoPoint) error {
	if location == nil {
		return nil
	}
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}

func (c *CreateOrderCommand) setWindow(from, to time.Time) error {
	if _, err := kernel.NewTimeWindow(from, to); err != nil {
		return err
	}

	c.from = from
	c.to = to
	return nil
}
