package server

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-orderform/pkg/metrics"
	"github.com/goliatone/go-orderform/pkg/view"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithViews overrides the page renderer.
func WithViews(views *view.Views) Option {
	return func(s *Server) {
		if views != nil {
			s.views = views
		}
	}
}

// WithRecorder attaches the metrics recorder shared by every session.
func WithRecorder(rec metrics.Recorder) Option {
	return func(s *Server) {
		if rec != nil {
			s.recorder = rec
		}
	}
}

// WithGatherer exposes gatherer on the metrics route. Without one the route
// is not registered.
func WithGatherer(gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

// WithSessionTTL sets how long an idle order page keeps its state.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.sessionTTL = ttl
	}
}

// WithSecureCookies marks the session cookie Secure.
func WithSecureCookies(secure bool) Option {
	return func(s *Server) {
		s.secureCookies = secure
	}
}
