package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainErrors "github.com/orderdesk/orderdesk/internal/domain/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestDisabledClient(t *testing.T) {
	if _, err := (Disabled{}).Send(context.Background(), Message{To: "a@b.c"}); !errors.Is(err, domainErrors.ErrMailerNotConfigured) {
		t.Fatalf("expected ErrMailerNotConfigured, got %v", err)
	}
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	if _, err := NewHTTPClient("://bad", "from@example.com", discardLogger()); err == nil {
		t.Fatal("expected error for malformed url")
	}
	if _, err := NewHTTPClient("/relative", "from@example.com", discardLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestHTTPClientSend(t *testing.T) {
	var received Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/send" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message_id": "msg-42"})
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "noreply@example.com", discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id, err := client.Send(context.Background(), Message{To: "client@example.com", Subject: "hi", Body: "there"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "msg-42" {
		t.Fatalf("unexpected message id %q", id)
	}
	if received.From != "noreply@example.com" {
		t.Fatalf("expected default sender, got %q", received.From)
	}
	if received.To != "client@example.com" || received.Subject != "hi" {
		t.Fatalf("unexpected payload %+v", received)
	}
}

func TestHTTPClientSendProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "noreply@example.com", discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := client.Send(context.Background(), Message{To: "x@y.z"}); err == nil {
		t.Fatal("expected error for provider failure")
	}
}

func TestHTTPClientSendProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "mailbox unavailable"})
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "noreply@example.com", discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := client.Send(context.Background(), Message{To: "x@y.z"}); err == nil {
		t.Fatal("expected error from provider payload")
	}
}
