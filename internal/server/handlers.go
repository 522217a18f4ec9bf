package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/goliatone/go-orderform/pkg/model"
	"github.com/goliatone/go-orderform/pkg/state"
)

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.renderPage(w, r, func(buf *bytes.Buffer) error {
		return s.views.Landing(r.Context(), buf)
	})
}

// handleOrder starts a new session per visit; leaving the page drops the
// previous state.
func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Create()
	if err != nil {
		s.logger.Error("create session failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	s.setSessionCookie(w, sess)

	sess.Lock()
	defer sess.Unlock()
	st := s.settled(r, sess)
	s.renderPage(w, r, func(buf *bytes.Buffer) error {
		return s.views.Order(r.Context(), buf, st)
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		writeError(w, StatusError{Code: http.StatusNotFound, Err: err})
		return
	}
	var event eventRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBytes))
	if err := dec.Decode(&event); err != nil {
		writeError(w, StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("decode event: %w", err)})
		return
	}

	sess.Lock()
	defer sess.Unlock()
	if !sess.acceptSeq(event.Seq) {
		s.logger.Debug("dropped stale event", "session", sess.ID, "seq", event.Seq, "field", event.Name)
		st := s.settled(r, sess)
		writeJSON(w, http.StatusOK, newStateResponse(sess.Controller.Catalog(), st))
		return
	}
	if err := sess.Controller.Dispatch(event.ChangeEvent); err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, state.ErrClosed) {
			code = http.StatusGone
		}
		resp := newStateResponse(sess.Controller.Catalog(), sess.Controller.State())
		resp.Error = err.Error()
		writeJSON(w, code, resp)
		return
	}
	st := s.settled(r, sess)
	writeJSON(w, http.StatusOK, newStateResponse(sess.Controller.Catalog(), st))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		s.submitJSON(w, r)
		return
	}
	s.submitForm(w, r)
}

// submitJSON submits the session's current form. The submit control is
// disabled while the form is invalid or a submission is in flight, so the
// same gate is enforced here.
func (s *Server) submitJSON(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		writeError(w, StatusError{Code: http.StatusNotFound, Err: err})
		return
	}

	sess.Lock()
	defer sess.Unlock()
	st := s.settled(r, sess)
	if !st.SubmitEnabled() || st.Submitting {
		resp := newStateResponse(sess.Controller.Catalog(), st)
		resp.Error = "submit disabled"
		writeJSON(w, http.StatusConflict, resp)
		return
	}
	if _, err := sess.Submitter.Submit(r.Context()); err != nil {
		writeError(w, StatusError{Code: http.StatusGone, Err: err})
		return
	}
	st = s.settled(r, sess)
	writeJSON(w, http.StatusOK, newStateResponse(sess.Controller.Catalog(), st))
}

// submitForm handles a plain form post: the posted controls are replayed as
// change events and the order is placed when the result is valid.
func (s *Server) submitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess, err := s.lookupSession(r)
	if err != nil {
		sess, err = s.store.Create()
		if err != nil {
			s.logger.Error("create session failed", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.setSessionCookie(w, sess)
	}

	sess.Lock()
	defer sess.Unlock()
	if err := replayForm(sess.Controller, r); err != nil {
		s.logger.Warn("replay form failed", "session", sess.ID, "error", err)
	}
	st := s.settled(r, sess)
	if st.SubmitEnabled() && !st.Submitting {
		if _, err := sess.Submitter.Submit(r.Context()); err != nil {
			s.logger.Warn("submit failed", "session", sess.ID, "error", err)
		}
		st = s.settled(r, sess)
	}
	s.renderPage(w, r, func(buf *bytes.Buffer) error {
		return s.views.Order(r.Context(), buf, st)
	})
}

func replayForm(c *state.Controller, r *http.Request) error {
	var errs []error
	for _, field := range model.ValidatedFields {
		if err := c.OnFieldChange(field, r.PostForm.Get(string(field))); err != nil {
			errs = append(errs, err)
		}
	}
	checked := model.NewToppingSet(r.PostForm[string(model.FieldToppings)]...)
	for _, topping := range c.Catalog().Toppings() {
		if err := c.OnToppingToggle(topping.ID, checked.Has(topping.ID)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// settled waits for the pending validation so responses carry a settled
// validity flag. A cancelled request returns the state as it stands.
func (s *Server) settled(r *http.Request, sess *Session) state.State {
	if err := sess.Controller.Settle(r.Context()); err != nil {
		s.logger.Debug("settle interrupted", "session", sess.ID, "error", err)
	}
	return sess.Controller.State()
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		s.logger.Error("render page failed", "path", r.URL.Path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = buf.WriteTo(w)
}

func wantsJSON(r *http.Request) bool {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil && mt == "application/json" {
			return true
		}
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
