// Package server exposes the order flow over HTTP. GET renders the landing and
// order pages; the order page keeps its live state in a cookie-keyed session
// that the browser drives with JSON change events. The submit control renders
// enabled and a plain form post is accepted, so orders can be placed without
// scripts.
package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-orderform/pkg/metrics"
	"github.com/goliatone/go-orderform/pkg/state"
	"github.com/goliatone/go-orderform/pkg/submit"
	"github.com/goliatone/go-orderform/pkg/view"
)

const (
	// SessionCookie names the cookie carrying the order session id.
	SessionCookie = "orderform_session"
	// MetricsPath serves the Prometheus exposition when a gatherer is set.
	MetricsPath = "/metrics"
	// AssetsPath serves the embedded theme assets.
	AssetsPath = view.DefaultAssetPrefix + "/"

	defaultSessionTTL = 30 * time.Minute
	maxEventBytes     = 64 << 10
)

// Mux is the minimal interface required to register the routes. It is
// satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Server wires HTTP requests to order sessions.
type Server struct {
	views         *view.Views
	collaborator  submit.Collaborator
	store         *Store
	logger        *slog.Logger
	recorder      metrics.Recorder
	gatherer      prometheus.Gatherer
	sessionTTL    time.Duration
	secureCookies bool
}

// New builds a server placing orders through collaborator.
func New(collaborator submit.Collaborator, opts ...Option) (*Server, error) {
	if collaborator == nil {
		return nil, submit.ErrCollaboratorRequired
	}
	s := &Server{
		collaborator: collaborator,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		recorder:     metrics.Nop{},
		sessionTTL:   defaultSessionTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.views == nil {
		views, err := view.New()
		if err != nil {
			return nil, fmt.Errorf("server: build views: %w", err)
		}
		s.views = views
	}
	s.store = NewStore(s.sessionTTL, s.newSession, WithStoreLogger(s.logger))
	return s, nil
}

// Store returns the session store, for sweeping and shutdown.
func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) newSession() (*state.Controller, *submit.Handler, error) {
	controller := state.New(
		state.WithLogger(s.logger),
		state.WithRecorder(s.recorder),
	)
	controller.Subscribe(func(st state.State) {
		s.logger.Debug("order state changed",
			"revision", st.Revision,
			"valid", st.Valid,
			"submitting", st.Submitting,
			"outcome", st.Outcome.Kind,
		)
	})
	handler, err := submit.New(controller, s.collaborator,
		submit.WithLogger(s.logger),
		submit.WithRecorder(s.recorder),
	)
	if err != nil {
		controller.Close()
		return nil, nil, err
	}
	return controller, handler, nil
}

// RegisterRoutes registers every route on mux.
func (s *Server) RegisterRoutes(mux Mux) error {
	if mux == nil {
		return errors.New("server: missing mux")
	}
	mux.Handle(view.LandingPath, allow(s.handleLanding, http.MethodGet, http.MethodHead))
	mux.Handle(view.OrderPath, allow(s.handleOrder, http.MethodGet, http.MethodHead))
	mux.Handle(view.EventsPath, allow(s.handleEvents, http.MethodPost))
	mux.Handle(view.SubmitPath, allow(s.handleSubmit, http.MethodPost))
	mux.Handle(AssetsPath, http.StripPrefix(AssetsPath, http.FileServer(http.FS(view.Assets()))))
	if s.gatherer != nil {
		mux.Handle(MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return nil
}

// Handler returns a mux with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	_ = s.RegisterRoutes(mux)
	return mux
}

func allow(fn http.HandlerFunc, methods ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, method := range methods {
			if r.Method == method {
				fn(w, r)
				return
			}
		}
		w.Header().Set("Allow", strings.Join(methods, ", "))
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sess *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     view.OrderPath,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) lookupSession(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return nil, ErrSessionNotFound
	}
	return s.store.Get(cookie.Value)
}
