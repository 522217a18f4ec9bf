// Package prompt runs the order form in a terminal. Answers feed the same
// form controller the web pages use and the order goes out through the same
// submission handler.
package prompt

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/goliatone/go-orderform/pkg/catalog"
	"github.com/goliatone/go-orderform/pkg/model"
	"github.com/goliatone/go-orderform/pkg/state"
)

// DefaultMaxAttempts bounds how often an invalid full name is re-prompted.
const DefaultMaxAttempts = 3

// Form is the slice of the form controller the flow drives.
type Form interface {
	OnFieldChange(name model.FieldName, raw string) error
	OnToppingToggle(id string, checked bool) error
	State() state.State
	Settle(ctx context.Context) error
	SubmitEnabled() bool
	Catalog() *catalog.Catalog
}

// Submitter places the order held by the form.
type Submitter interface {
	Submit(ctx context.Context) (state.Outcome, error)
}

var _ Form = (*state.Controller)(nil)

// Option configures a Flow.
type Option func(*Flow)

// WithPromptDriver overrides the terminal driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(f *Flow) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithMaxAttempts overrides DefaultMaxAttempts.
func WithMaxAttempts(n int) Option {
	return func(f *Flow) {
		if n > 0 {
			f.maxAttempts = n
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Flow) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Flow asks for each field, then confirms and submits.
type Flow struct {
	form        Form
	submitter   Submitter
	driver      PromptDriver
	maxAttempts int
	logger      *slog.Logger
}

// New builds a Flow prompting on the terminal unless a driver is supplied.
func New(form Form, submitter Submitter, opts ...Option) *Flow {
	f := &Flow{
		form:        form,
		submitter:   submitter,
		maxAttempts: DefaultMaxAttempts,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(f)
	}
	if f.driver == nil {
		f.driver = NewSurveyDriver(nil)
	}
	return f
}

// Run collects the order and submits it. A declined confirmation returns
// the zero Outcome. After a failed submission the customer may edit the
// order and try again; values are kept between rounds.
func (f *Flow) Run(ctx context.Context) (state.Outcome, error) {
	if err := f.driver.Info(ctx, "Order Your Pizza"); err != nil {
		return state.Outcome{}, err
	}

	for {
		if err := f.collect(ctx); err != nil {
			return state.Outcome{}, err
		}
		if err := f.form.Settle(ctx); err != nil {
			return state.Outcome{}, err
		}
		if !f.form.SubmitEnabled() {
			return state.Outcome{}, ErrIncomplete
		}

		ok, err := f.driver.Confirm(ctx, ConfirmConfig{Message: f.summary(), Default: true})
		if err != nil {
			return state.Outcome{}, err
		}
		if !ok {
			return state.Outcome{}, f.driver.Info(ctx, "Order cancelled.")
		}

		outcome, err := f.submitter.Submit(ctx)
		if err != nil {
			return state.Outcome{}, err
		}
		f.logger.Debug("terminal order submitted", "outcome", outcome.Kind)
		if err := f.driver.Info(ctx, outcome.Message); err != nil {
			return outcome, err
		}
		if outcome.Kind != state.OutcomeFailure {
			return outcome, nil
		}

		retry, err := f.driver.Confirm(ctx, ConfirmConfig{Message: "Edit the order and try again?", Default: true})
		if err != nil {
			return outcome, err
		}
		if !retry {
			return outcome, nil
		}
	}
}

func (f *Flow) collect(ctx context.Context) error {
	if err := f.askFullName(ctx); err != nil {
		return err
	}
	if err := f.askSize(ctx); err != nil {
		return err
	}
	return f.askToppings(ctx)
}

func (f *Flow) askFullName(ctx context.Context) error {
	current := f.form.State().Form.FullName
	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		answer, err := f.driver.Input(ctx, InputConfig{Message: "Full Name", Default: current, Help: "Type full name"})
		if err != nil {
			return err
		}
		if err := f.form.OnFieldChange(model.FieldFullName, answer); err != nil {
			return err
		}
		msg := f.form.State().Errors.Get(model.FieldFullName)
		if msg == "" {
			return nil
		}
		if err := f.driver.Info(ctx, msg); err != nil {
			return err
		}
		current = answer
	}
	return fmt.Errorf("%w: %s", ErrTooManyAttempts, model.FieldFullName)
}

func (f *Flow) askSize(ctx context.Context) error {
	var (
		labels []string
		values []string
	)
	for _, opt := range f.form.Catalog().Sizes() {
		if opt.Value == "" {
			continue
		}
		labels = append(labels, opt.Label)
		values = append(values, opt.Value)
	}

	current := string(f.form.State().Form.Size)
	defaultIdx := 0
	for i, v := range values {
		if v == current {
			defaultIdx = i
		}
	}

	idx, err := f.driver.Select(ctx, SelectConfig{Message: "Size", Options: labels, DefaultIndex: defaultIdx})
	if err != nil {
		return err
	}
	value := ""
	if idx >= 0 && idx < len(values) {
		value = values[idx]
	}
	return f.form.OnFieldChange(model.FieldSize, value)
}

func (f *Flow) askToppings(ctx context.Context) error {
	toppings := f.form.Catalog().Toppings()
	current := f.form.State().Form.Toppings

	labels := make([]string, len(toppings))
	var defaults []int
	for i, topping := range toppings {
		labels[i] = topping.Label
		if current.Has(topping.ID) {
			defaults = append(defaults, i)
		}
	}

	picked, err := f.driver.MultiSelect(ctx, SelectConfig{Message: "Toppings", Options: labels, Defaults: defaults})
	if err != nil {
		return err
	}
	chosen := make(map[int]bool, len(picked))
	for _, idx := range picked {
		chosen[idx] = true
	}
	for i, topping := range toppings {
		if err := f.form.OnToppingToggle(topping.ID, chosen[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *Flow) summary() string {
	form := f.form.State().Form
	cat := f.form.Catalog()
	size := string(form.Size)
	for _, opt := range cat.Sizes() {
		if opt.Value == size {
			size = opt.Label
		}
	}
	return fmt.Sprintf("Place order for %s: %s pizza with %d topping(s)?", form.FullName, size, form.Toppings.Len())
}
