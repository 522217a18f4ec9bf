package schema

import "errors"

var (
	// ErrUnknownField is returned when a field name is not declared by the
	// schema.
	ErrUnknownField = errors.New("schema: unknown field")
	// ErrOperationMissing signals the OpenAPI document does not declare the
	// requested operation or its JSON request body.
	ErrOperationMissing = errors.New("schema: order operation not found")
)
