package state

import (
	"context"

	"github.com/goliatone/go-orderform/pkg/model"
	"github.com/goliatone/go-orderform/pkg/schema"
)

// FormValidator judges a whole form. Implementations may block; the
// controller always calls them off the mutation path and discards results
// computed against a superseded snapshot. An error counts as invalid.
type FormValidator interface {
	ValidForm(ctx context.Context, form model.OrderForm) (bool, error)
}

// FormValidatorFunc adapts a function to FormValidator.
type FormValidatorFunc func(ctx context.Context, form model.OrderForm) (bool, error)

// ValidForm calls fn.
func (fn FormValidatorFunc) ValidForm(ctx context.Context, form model.OrderForm) (bool, error) {
	return fn(ctx, form)
}

// SchemaValidator returns a FormValidator backed by s.
func SchemaValidator(s *schema.Schema) FormValidator {
	return FormValidatorFunc(func(ctx context.Context, form model.OrderForm) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		return s.ValidateForm(form), nil
	})
}
