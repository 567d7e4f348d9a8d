package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestHMACStrategyRoundTrip(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Hour})

	token, err := strategy.IssueToken(42, "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	userID, role, err := strategy.ParseToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userID != 42 || role != "admin" {
		t.Fatalf("unexpected claims %d %q", userID, role)
	}
}

func TestHMACStrategyRejectsRoleWithSeparator(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	if _, err := strategy.IssueToken(1, "admin:super"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestHMACStrategyRejectsTampering(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Hour})
	other := NewHMACStrategy("different", Options{TTL: time.Hour})

	token, err := strategy.IssueToken(7, "client")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := other.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret: expected ErrInvalidToken, got %v", err)
	}
	if _, _, err := strategy.ParseToken("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage token: expected ErrInvalidToken, got %v", err)
	}
	if _, _, err := strategy.ParseToken(""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("empty token: expected ErrInvalidToken, got %v", err)
	}
}

func TestHMACStrategyRejectsExpired(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Hour})

	expires := time.Now().Add(-time.Minute).Unix()
	payload := fmt.Sprintf("%d:%s:%d", 7, "client", expires)
	token := base64.StdEncoding.EncodeToString([]byte(payload + ":" + strategy.sign(payload)))

	if _, _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("hash must not equal the password")
	}
	if err := hasher.Compare(hash, "hunter2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := hasher.Compare(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}
