// Package submit sends a completed order to the remote endpoint and feeds the
// answer back into the form controller.
package submit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/goliatone/go-orderform/pkg/catalog"
	"github.com/goliatone/go-orderform/pkg/metrics"
	"github.com/goliatone/go-orderform/pkg/model"
	"github.com/goliatone/go-orderform/pkg/state"
)

// Collaborator is the remote order endpoint.
type Collaborator interface {
	PlaceOrder(ctx context.Context, payload model.OrderPayload) (message string, err error)
}

// CollaboratorFunc adapts a function to Collaborator.
type CollaboratorFunc func(ctx context.Context, payload model.OrderPayload) (string, error)

// PlaceOrder calls fn.
func (fn CollaboratorFunc) PlaceOrder(ctx context.Context, payload model.OrderPayload) (string, error) {
	return fn(ctx, payload)
}

// Controller is the slice of the form controller a submission drives.
type Controller interface {
	BeginSubmit() (model.Snapshot, error)
	ApplySuccess(message string)
	ApplyFailure(message string)
	Catalog() *catalog.Catalog
}

var _ Controller = (*state.Controller)(nil)

// Handler submits the controller's form through a Collaborator.
type Handler struct {
	controller   Controller
	collaborator Collaborator
	fallback     string
	logger       *slog.Logger
	recorder     metrics.Recorder
}

// New builds a Handler. The transport fallback message defaults to the
// catalog's SubmitUnavailable message.
func New(controller Controller, collaborator Collaborator, opts ...Option) (*Handler, error) {
	if controller == nil {
		return nil, ErrControllerRequired
	}
	if collaborator == nil {
		return nil, ErrCollaboratorRequired
	}
	h := &Handler{
		controller:   controller,
		collaborator: collaborator,
		fallback:     controller.Catalog().Messages().SubmitUnavailable,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		recorder:     metrics.Nop{},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(h)
	}
	return h, nil
}

// Submit sends the current form and applies the result. Validity is not
// re-checked here; callers gate on the controller's SubmitEnabled. The only
// error returned comes from the controller itself, every endpoint failure is
// reported through the Failure outcome.
func (h *Handler) Submit(ctx context.Context) (state.Outcome, error) {
	snap, err := h.controller.BeginSubmit()
	if err != nil {
		return state.Outcome{}, err
	}
	payload := snap.Form.Payload(h.controller.Catalog())

	start := time.Now()
	message, err := h.collaborator.PlaceOrder(ctx, payload)
	elapsed := time.Since(start)

	if err == nil {
		msg := Sanitize(message)
		h.controller.ApplySuccess(msg)
		h.recorder.ObserveSubmission(metrics.SubmissionSuccess, elapsed)
		h.logger.Info("order placed",
			"revision", snap.Revision,
			"size", payload.Size,
			"toppings", len(payload.Toppings),
			"duration", elapsed,
		)
		return state.Success(msg), nil
	}

	var rejected *RejectedError
	if errors.As(err, &rejected) {
		msg := Sanitize(rejected.Message)
		if msg == "" {
			msg = h.fallback
		}
		h.controller.ApplyFailure(msg)
		h.recorder.ObserveSubmission(metrics.SubmissionFailure, elapsed)
		h.logger.Info("order rejected",
			"revision", snap.Revision,
			"status", rejected.Status,
			"message", msg,
		)
		return state.Failure(msg), nil
	}

	h.controller.ApplyFailure(h.fallback)
	h.recorder.ObserveSubmission(metrics.SubmissionError, elapsed)
	h.logger.Error("order submission failed", "revision", snap.Revision, "error", err)
	return state.Failure(h.fallback), nil
}
