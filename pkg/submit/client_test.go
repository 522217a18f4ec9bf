package submit_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-orderform/pkg/model"
	"github.com/goliatone/go-orderform/pkg/submit"
)

func samplePayload() model.OrderPayload {
	return model.OrderPayload{FullName: "Alice Smith", Size: "L", Toppings: []string{"1", "3"}}
}

func TestHTTPClient_PostsPayload(t *testing.T) {
	var (
		gotMethod  string
		gotHeaders http.Header
		gotBody    model.OrderPayload
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeaders = r.Header.Clone()
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Thank you, Alice"}`))
	}))
	defer srv.Close()

	client, err := submit.NewHTTPClient(srv.URL, submit.WithRequestID(func() string { return "req-1" }))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	message, err := client.PlaceOrder(context.Background(), samplePayload())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if message != "Thank you, Alice" {
		t.Fatalf("unexpected message %q", message)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("expected POST, got %s", gotMethod)
	}
	if got := gotHeaders.Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := gotHeaders.Get("X-Request-ID"); got != "req-1" {
		t.Fatalf("unexpected request id %q", got)
	}
	if diff := cmp.Diff(samplePayload(), gotBody); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPClient_DefaultRequestIDIsUUID(t *testing.T) {
	ids := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids <- r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	client, err := submit.NewHTTPClient(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.PlaceOrder(context.Background(), samplePayload()); err != nil {
		t.Fatalf("place order: %v", err)
	}
	if id := <-ids; len(id) != 36 {
		t.Fatalf("expected uuid request id, got %q", id)
	}
}

func TestHTTPClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "message from body", status: http.StatusUnprocessableEntity, body: `{"message":"Pineapple is sold out"}`, wantMsg: "Pineapple is sold out"},
		{name: "status text fallback", status: http.StatusInternalServerError, body: ``, wantMsg: "Internal Server Error"},
		{name: "non json body", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantMsg: "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, err := submit.NewHTTPClient(srv.URL)
			if err != nil {
				t.Fatalf("new client: %v", err)
			}
			_, err = client.PlaceOrder(context.Background(), samplePayload())

			var rejected *submit.RejectedError
			if !errors.As(err, &rejected) {
				t.Fatalf("expected RejectedError, got %v", err)
			}
			if rejected.Status != tt.status || rejected.Message != tt.wantMsg {
				t.Fatalf("unexpected rejection %+v", rejected)
			}
			if errors.Is(err, submit.ErrTransport) {
				t.Fatalf("rejection must not be reported as transport failure")
			}
		})
	}
}

func TestHTTPClient_MalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client, err := submit.NewHTTPClient(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.PlaceOrder(context.Background(), samplePayload()); !errors.Is(err, submit.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestHTTPClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client, err := submit.NewHTTPClient(url)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.PlaceOrder(context.Background(), samplePayload()); !errors.Is(err, submit.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestHTTPClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client, err := submit.NewHTTPClient(srv.URL, submit.WithTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.PlaceOrder(context.Background(), samplePayload())
	if !errors.Is(err, submit.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestNewHTTPClient_RequiresEndpoint(t *testing.T) {
	if _, err := submit.NewHTTPClient("  "); !errors.Is(err, submit.ErrEndpointRequired) {
		t.Fatalf("expected ErrEndpointRequired, got %v", err)
	}
}
