// Package metrics records order form activity. Components depend on the
// Recorder interface; Nop is the default and the Prometheus implementation is
// wired by the server.
package metrics

import "time"

// Validation results reported through ObserveValidation.
const (
	ValidationValid   = "valid"
	ValidationInvalid = "invalid"
	ValidationStale   = "stale"
)

// Submission outcomes reported through ObserveSubmission.
const (
	SubmissionSuccess = "success"
	SubmissionFailure = "failure"
	SubmissionError   = "error"
)

// Recorder receives order form events.
type Recorder interface {
	ObserveFieldChange(field string)
	ObserveValidation(result string)
	ObserveSubmission(outcome string, duration time.Duration)
}

// Nop discards every observation.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) ObserveFieldChange(string) {}
func (Nop) ObserveValidation(string) {}
func (Nop) ObserveSubmission(string, time.Duration) {}
