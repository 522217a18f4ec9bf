package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-orderform/pkg/state"
	"github.com/goliatone/go-orderform/pkg/submit"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("server: session not found")

// Session is one order page visit: a live controller plus the submit handler
// bound to it. Requests of one session are serialised through Lock.
type Session struct {
	ID         string
	Controller *state.Controller
	Submitter  *submit.Handler

	mu       sync.Mutex
	lastSeen time.Time
	lastSeq  uint64 // guarded by mu
}

// Lock serialises request handling for the session.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// acceptSeq reports whether a change event numbered seq is newer than the
// last one applied. Zero carries no order and is always accepted. The caller
// holds the session lock.
func (s *Session) acceptSeq(seq uint64) bool {
	if seq == 0 {
		return true
	}
	if seq <= s.lastSeq {
		return false
	}
	s.lastSeq = seq
	return true
}

// SessionFactory builds the controller and submit handler of a new session.
type SessionFactory func() (*state.Controller, *submit.Handler, error)

// Store keeps sessions in memory and expires those idle for longer than the
// configured TTL.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	factory  SessionFactory
	now      func() time.Time
	logger   *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStoreLogger attaches a logger.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore builds a session store. A non-positive ttl keeps sessions until
// Close.
func NewStore(ttl time.Duration, factory SessionFactory, opts ...StoreOption) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		factory:  factory,
		now:      time.Now,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Create starts a new session.
func (s *Store) Create() (*Session, error) {
	if s.factory == nil {
		return nil, errors.New("server: missing session factory")
	}
	controller, submitter, err := s.factory()
	if err != nil {
		return nil, err
	}
	sess := &Session{
		ID:         uuid.NewString(),
		Controller: controller,
		Submitter:  submitter,
		lastSeen:   s.now(),
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	s.logger.Debug("session created", "session", sess.ID)
	return sess, nil
}

// Get returns the session for id and marks it as recently used.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := s.now()
	if s.expired(sess, now) {
		delete(s.sessions, id)
		go sess.Controller.Close()
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = now
	return sess, nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops expired sessions and closes their controllers. It returns the
// number of sessions removed.
func (s *Store) Sweep() int {
	now := s.now()
	var expired []*Session
	s.mu.Lock()
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.Controller.Close()
	}
	if len(expired) > 0 {
		s.logger.Debug("sessions expired", "count", len(expired))
	}
	return len(expired)
}

// Run sweeps on every interval tick until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Close drops every session.
func (s *Store) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()
	for _, sess := range sessions {
		sess.Controller.Close()
	}
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.lastSeen) > s.ttl
}
