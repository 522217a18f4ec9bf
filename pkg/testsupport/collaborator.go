package testsupport

import (
	"context"
	"sync"

	"github.com/goliatone/go-orderform/pkg/model"
)

// StubCollaborator answers PlaceOrder with a scripted message or error and
// records every payload it receives.
type StubCollaborator struct {
	Message string
	Err     error

	mu       sync.Mutex
	payloads []model.OrderPayload
}

// PlaceOrder records payload and returns the scripted response.
func (s *StubCollaborator) PlaceOrder(ctx context.Context, payload model.OrderPayload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	s.payloads = append(s.payloads, payload)
	s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	return s.Message, nil
}

// Payloads returns the payloads received so far.
func (s *StubCollaborator) Payloads() []model.OrderPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.OrderPayload(nil), s.payloads...)
}
