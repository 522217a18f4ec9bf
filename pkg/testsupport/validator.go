package testsupport

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-orderform/pkg/model"
)

// PendingValidation is a whole-form validation held by a GateValidator until
// the test resolves it.
type PendingValidation struct {
	Form    model.OrderForm
	release chan bool
}

// Resolve lets the validation return valid.
func (p *PendingValidation) Resolve(valid bool) {
	p.release <- valid
}

// GateValidator blocks every ValidForm call until the test resolves it, which
// makes the completion order of concurrent validations scriptable.
type GateValidator struct {
	calls chan *PendingValidation
}

// NewGateValidator returns a validator that queues up to buffer calls.
func NewGateValidator(buffer int) *GateValidator {
	if buffer <= 0 {
		buffer = 16
	}
	return &GateValidator{calls: make(chan *PendingValidation, buffer)}
}

// ValidForm implements the controller's FormValidator contract.
func (g *GateValidator) ValidForm(ctx context.Context, form model.OrderForm) (bool, error) {
	pending := &PendingValidation{Form: form.Clone(), release: make(chan bool, 1)}
	select {
	case g.calls <- pending:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	select {
	case valid := <-pending.release:
		return valid, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Next waits for the next validation call.
func (g *GateValidator) Next(t *testing.T) *PendingValidation {
	t.Helper()
	select {
	case pending := <-g.calls:
		return pending
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for validation call")
		return nil
	}
}
