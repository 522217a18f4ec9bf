package submit

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport wraps failures to reach the order endpoint or to read its
	// response.
	ErrTransport = errors.New("submit: transport failure")
	// ErrEndpointRequired is returned when the client has no endpoint URL.
	ErrEndpointRequired = errors.New("submit: endpoint is required")
	// ErrControllerRequired is returned when a handler is built without a
	// form controller.
	ErrControllerRequired = errors.New("submit: controller is required")
	// ErrCollaboratorRequired is returned when a handler is built without an
	// order collaborator.
	ErrCollaboratorRequired = errors.New("submit: collaborator is required")
)

// RejectedError reports an order the endpoint answered with a non-2xx status.
// Message carries the endpoint's explanation and is shown to the customer.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	if e == nil {
		return "submit: order rejected"
	}
	return fmt.Sprintf("submit: order rejected (%d): %s", e.Status, e.Message)
}
