package state

import (
	"log/slog"

	"github.com/goliatone/go-orderform/pkg/catalog"
	"github.com/goliatone/go-orderform/pkg/metrics"
	"github.com/goliatone/go-orderform/pkg/schema"
)

// Option configures a Controller.
type Option func(*Controller)

// WithSchema overrides the schema used for field-level validation. When no
// FormValidator is configured the same schema backs whole-form validation.
func WithSchema(s *schema.Schema) Option {
	return func(c *Controller) {
		if s != nil {
			c.schema = s
		}
	}
}

// WithCatalog overrides the topping catalog used to accept toggles.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(c *Controller) {
		if cat != nil {
			c.catalog = cat
		}
	}
}

// WithFormValidator replaces the whole-form validator.
func WithFormValidator(v FormValidator) Option {
	return func(c *Controller) {
		if v != nil {
			c.validator = v
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(c *Controller) {
		if rec != nil {
			c.recorder = rec
		}
	}
}
