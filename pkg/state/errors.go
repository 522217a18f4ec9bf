package state

import "errors"

var (
	// ErrUnknownField is returned when a change targets a field the order form
	// does not declare as a scalar input.
	ErrUnknownField = errors.New("state: unknown field")
	// ErrUnknownTopping is returned when a toggle names an id outside the
	// topping catalog.
	ErrUnknownTopping = errors.New("state: unknown topping")
	// ErrClosed is returned by mutations issued after Close.
	ErrClosed = errors.New("state: controller closed")
)
