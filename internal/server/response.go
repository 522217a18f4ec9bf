package server

import (
	"encoding/json"
	"net/http"

	"github.com/goliatone/go-orderform/pkg/catalog"
	"github.com/goliatone/go-orderform/pkg/state"
)

// StatusError carries the HTTP status a handler failure maps to.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// eventRequest is a change event posted by the page script. Seq increases
// with every event of a page visit; events at or below the last applied seq
// are dropped.
type eventRequest struct {
	state.ChangeEvent
	Seq uint64 `json:"seq,omitempty"`
}

type valuesResponse struct {
	FullName string   `json:"fullName"`
	Size     string   `json:"size"`
	Toppings []string `json:"toppings"`
}

// stateResponse is the JSON view of a session consumed by the page script.
type stateResponse struct {
	Values     valuesResponse    `json:"values"`
	Errors     map[string]string `json:"errors"`
	Valid      bool              `json:"valid"`
	Outcome    state.Outcome     `json:"outcome"`
	Submitting bool              `json:"submitting"`
	Revision   uint64            `json:"revision"`
	Error      string            `json:"error,omitempty"`
}

func newStateResponse(cat *catalog.Catalog, st state.State) stateResponse {
	payload := st.Form.Payload(cat)
	errs := make(map[string]string, len(st.Errors))
	for name, msg := range st.Errors {
		errs[string(name)] = msg
	}
	return stateResponse{
		Values: valuesResponse{
			FullName: payload.FullName,
			Size:     payload.Size,
			Toppings: payload.Toppings,
		},
		Errors:     errs,
		Valid:      st.Valid,
		Outcome:    st.Outcome,
		Submitting: st.Submitting,
		Revision:   st.Revision,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	if se, ok := err.(StatusError); ok {
		code = se.StatusCode()
	}
	writeJSON(w, code, errorResponse{Error: err.Error()})
}
