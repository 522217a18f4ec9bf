// Package testsupport offers helpers shared by the package tests: a filled-in
// order, a controllable whole-form validator and a scripted order
// collaborator.
package testsupport

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-orderform/pkg/model"
	"github.com/goliatone/go-orderform/pkg/state"
)

// SettleTimeout bounds how long helpers wait for a validation to settle.
const SettleTimeout = 2 * time.Second

// ValidOrder returns a form the default schema accepts. Toppings are listed
// out of catalog order on purpose.
func ValidOrder() model.OrderForm {
	return model.OrderForm{
		FullName: "Alice Smith",
		Size:     model.SizeLarge,
		Toppings: model.NewToppingSet("5", "1"),
	}
}

// FillForm drives c through the change events that produce form, then waits
// for the resulting validation.
func FillForm(t *testing.T, c *state.Controller, form model.OrderForm) state.State {
	t.Helper()
	if err := c.OnFieldChange(model.FieldFullName, form.FullName); err != nil {
		t.Fatalf("fill fullName: %v", err)
	}
	if err := c.OnFieldChange(model.FieldSize, string(form.Size)); err != nil {
		t.Fatalf("fill size: %v", err)
	}
	for _, id := range form.Toppings.IDs() {
		if err := c.OnToppingToggle(id, true); err != nil {
			t.Fatalf("fill topping %s: %v", id, err)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), SettleTimeout)
	defer cancel()
	if err := c.Settle(ctx); err != nil {
		t.Fatalf("settle: %v", err)
	}
	return c.State()
}
