// Package state owns the live order form of one page visit. Every change goes
// through Apply: the field-level error is recomputed synchronously and a
// whole-form validation is scheduled against a snapshot of the new form.
// Snapshots carry a revision, and a validation result whose revision is no
// longer current is dropped, so the validity flag always settles on the most
// recent form even when validations resolve out of order.
package state

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/goliatone/go-orderform/pkg/catalog"
	"github.com/goliatone/go-orderform/pkg/metrics"
	"github.com/goliatone/go-orderform/pkg/model"
	"github.com/goliatone/go-orderform/pkg/schema"
)

// OutcomeKind classifies the last submission attempt.
type OutcomeKind string

const (
	OutcomeNone    OutcomeKind = ""
	OutcomeSuccess OutcomeKind = "success"
	OutcomeFailure OutcomeKind = "failure"
)

// Outcome is the displayed result of the last submission attempt.
type Outcome struct {
	Kind    OutcomeKind `json:"kind,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Success builds a success outcome.
func Success(message string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Message: message}
}

// Failure builds a failure outcome.
func Failure(message string) Outcome {
	return Outcome{Kind: OutcomeFailure, Message: message}
}

// State is an immutable view of the controller.
type State struct {
	Form   model.OrderForm
	Errors model.FieldErrors
	// Valid is the whole-form validity flag. It gates the submit control.
	Valid bool
	// Pending reports a whole-form validation in flight for Revision.
	Pending    bool
	Submitting bool
	Outcome    Outcome
	Revision   uint64
}

// SubmitEnabled reports whether the submit control is enabled.
func (s State) SubmitEnabled() bool {
	return s.Valid
}

// Listener observes state changes. Listeners run on the goroutine that caused
// the change and must not block; use Revision to order notifications.
type Listener func(State)

type listenerEntry struct {
	id uint64
	fn Listener
}

// Controller synchronises the order form with its validation state.
type Controller struct {
	mu         sync.Mutex
	form       model.OrderForm
	errors     model.FieldErrors
	valid      bool
	outcome    Outcome
	submitting bool
	revision   uint64
	pending    bool
	settled    chan struct{}
	closed     bool

	listeners    []listenerEntry
	nextListener uint64

	ctx    context.Context
	cancel context.CancelFunc

	schema    *schema.Schema
	catalog   *catalog.Catalog
	validator FormValidator
	logger    *slog.Logger
	recorder  metrics.Recorder
}

// New constructs a controller holding an empty form and schedules the first
// whole-form validation.
func New(opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		form:     model.Empty(),
		errors:   model.FieldErrors{}.Clone(),
		ctx:      ctx,
		cancel:   cancel,
		schema:   schema.Default(),
		catalog:  catalog.Default(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		recorder: metrics.Nop{},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.validator == nil {
		c.validator = SchemaValidator(c.schema)
	}

	c.mu.Lock()
	snap := c.beginRevisionLocked()
	c.mu.Unlock()
	go c.revalidate(snap)
	return c
}

type mutationKind int

const (
	mutateField mutationKind = iota + 1
	mutateTopping
	mutateReset
)

// Mutation is a single change to the order form. Build one with SetField,
// ToggleTopping or Reset.
type Mutation struct {
	kind    mutationKind
	field   model.FieldName
	value   string
	topping string
	checked bool
}

// SetField replaces a scalar field value.
func SetField(name model.FieldName, value string) Mutation {
	return Mutation{kind: mutateField, field: name, value: value}
}

// ToggleTopping adds (checked) or removes a topping id.
func ToggleTopping(id string, checked bool) Mutation {
	return Mutation{kind: mutateTopping, topping: id, checked: checked}
}

// Reset empties the form and clears field errors.
func Reset() Mutation {
	return Mutation{kind: mutateReset}
}

func (m Mutation) label() string {
	switch m.kind {
	case mutateField:
		return string(m.field)
	case mutateTopping:
		return string(model.FieldToppings)
	default:
		return "reset"
	}
}

// Apply is the single mutation entry point.
func (c *Controller) Apply(m Mutation) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if err := c.mutateLocked(m); err != nil {
		c.mu.Unlock()
		return err
	}
	snap := c.beginRevisionLocked()
	st := c.stateLocked()
	c.mu.Unlock()

	c.recorder.ObserveFieldChange(m.label())
	c.notify(st)
	go c.revalidate(snap)
	return nil
}

// OnFieldChange normalises and merges a scalar field value, then refreshes
// that field's error and schedules a whole-form validation.
func (c *Controller) OnFieldChange(name model.FieldName, raw string) error {
	return c.Apply(SetField(name, raw))
}

// OnToppingToggle adds or removes a topping and schedules a whole-form
// validation. Field errors are left untouched.
func (c *Controller) OnToppingToggle(id string, checked bool) error {
	return c.Apply(ToggleTopping(id, checked))
}

func (c *Controller) mutateLocked(m Mutation) error {
	switch m.kind {
	case mutateField:
		value := m.value
		switch m.field {
		case model.FieldFullName:
			value = strings.TrimSpace(value)
		case model.FieldSize:
		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, m.field)
		}
		res, err := c.schema.ValidateField(m.field, value)
		if err != nil {
			return fmt.Errorf("state: validate %s: %w", m.field, err)
		}
		if m.field == model.FieldFullName {
			c.form.FullName = value
		} else {
			c.form.Size = model.Size(value)
		}
		c.errors[m.field] = res.Message
	case mutateTopping:
		if !c.catalog.Has(m.topping) {
			return fmt.Errorf("%w: %q", ErrUnknownTopping, m.topping)
		}
		if c.form.Toppings == nil {
			c.form.Toppings = model.ToppingSet{}
		}
		if m.checked {
			c.form.Toppings[m.topping] = struct{}{}
		} else {
			delete(c.form.Toppings, m.topping)
		}
	case mutateReset:
		c.form = model.Empty()
		c.errors = model.FieldErrors{}.Clone()
	default:
		return errors.New("state: invalid mutation")
	}
	return nil
}

// beginRevisionLocked advances the revision and marks a validation pending.
func (c *Controller) beginRevisionLocked() model.Snapshot {
	c.revision++
	c.pending = true
	if c.settled == nil {
		c.settled = make(chan struct{})
	}
	return model.Snapshot{Revision: c.revision, Form: c.form.Clone()}
}

func (c *Controller) settleLocked() {
	c.pending = false
	if c.settled != nil {
		close(c.settled)
		c.settled = nil
	}
}

func (c *Controller) revalidate(snap model.Snapshot) {
	valid, err := c.validator.ValidForm(c.ctx, snap.Form)
	if err != nil {
		if c.ctx.Err() == nil {
			c.logger.Warn("whole-form validation failed", "revision", snap.Revision, "error", err)
		}
		valid = false
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if snap.Revision != c.revision {
		current := c.revision
		c.mu.Unlock()
		c.recorder.ObserveValidation(metrics.ValidationStale)
		c.logger.Debug("discarding stale validation", "revision", snap.Revision, "current", current)
		return
	}
	c.valid = valid
	c.settleLocked()
	st := c.stateLocked()
	c.mu.Unlock()

	if valid {
		c.recorder.ObserveValidation(metrics.ValidationValid)
	} else {
		c.recorder.ObserveValidation(metrics.ValidationInvalid)
	}
	c.notify(st)
}

// BeginSubmit marks a submission in flight and returns the form it should
// send. Validity is not re-checked; callers gate on SubmitEnabled.
func (c *Controller) BeginSubmit() (model.Snapshot, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return model.Snapshot{}, ErrClosed
	}
	c.submitting = true
	snap := model.Snapshot{Revision: c.revision, Form: c.form.Clone()}
	st := c.stateLocked()
	c.mu.Unlock()

	c.notify(st)
	return snap, nil
}

// ApplySuccess records a successful submission: the form and its errors are
// reset, the outcome becomes Success and the validity flag is forced true.
// The reset schedules a validation of the empty form, which then settles the
// flag on the schema's judgment.
func (c *Controller) ApplySuccess(message string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.form = model.Empty()
	c.errors = model.FieldErrors{}.Clone()
	c.outcome = Success(message)
	c.submitting = false
	c.valid = true
	snap := c.beginRevisionLocked()
	st := c.stateLocked()
	c.mu.Unlock()

	c.notify(st)
	go c.revalidate(snap)
}

// ApplyFailure records a failed submission. Values and field errors are
// kept, the outcome becomes Failure and the validity flag is forced false
// until the next edit. Validations still in flight are superseded.
func (c *Controller) ApplyFailure(message string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.outcome = Failure(message)
	c.submitting = false
	c.valid = false
	c.revision++
	c.settleLocked()
	st := c.stateLocked()
	c.mu.Unlock()

	c.notify(st)
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// SubmitEnabled reports whether the submit control is enabled.
func (c *Controller) SubmitEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.valid
}

// Catalog returns the topping catalog the controller accepts.
func (c *Controller) Catalog() *catalog.Catalog {
	return c.catalog
}

func (c *Controller) stateLocked() State {
	return State{
		Form:       c.form.Clone(),
		Errors:     c.errors.Clone(),
		Valid:      c.valid,
		Pending:    c.pending,
		Submitting: c.submitting,
		Outcome:    c.outcome,
		Revision:   c.revision,
	}
}

// Settle blocks until the most recently scheduled whole-form validation has
// been applied or superseded by a forced outcome.
func (c *Controller) Settle(ctx context.Context) error {
	c.mu.Lock()
	ch := c.settled
	c.mu.Unlock()
	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe registers fn for state changes and returns a function that
// removes it.
func (c *Controller) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	c.mu.Lock()
	c.nextListener++
	id := c.nextListener
	c.listeners = append(c.listeners, listenerEntry{id: id, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, entry := range c.listeners {
				if entry.id == id {
					c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (c *Controller) notify(st State) {
	c.mu.Lock()
	if len(c.listeners) == 0 {
		c.mu.Unlock()
		return
	}
	fns := make([]Listener, len(c.listeners))
	for i, entry := range c.listeners {
		fns[i] = entry.fn
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

// Close stops in-flight validations and rejects further mutations. Waiters
// blocked in Settle are released.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.settleLocked()
	c.listeners = nil
	c.mu.Unlock()
	c.cancel()
}
