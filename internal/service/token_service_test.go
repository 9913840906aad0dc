package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	tokens := newTestTokenService(t)

	token, expiresAt, err := tokens.Issue("user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if time.Until(expiresAt) < 29*24*time.Hour {
		t.Errorf("expected ~30 day expiry, got %v", expiresAt)
	}

	subject, err := tokens.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}
	if subject != "user-1" {
		t.Errorf("expected subject user-1, got %s", subject)
	}
}

func TestTokenService_Expired(t *testing.T) {
	tokens := newTestTokenService(t)
	tokens.now = func() time.Time { return time.Now().Add(-31 * 24 * time.Hour) }

	token, _, err := tokens.Issue("user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := tokens.Verify(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	issuer, err := NewTokenService("another-secret-that-is-long-enough-xx", "ttdashboard", "ttdashboard-api", time.Hour)
	if err != nil {
		t.Fatalf("failed to create token service: %v", err)
	}
	token, _, _ := issuer.Issue("user-1")

	if _, err := newTestTokenService(t).Verify(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	if _, err := NewTokenService("", "iss", "aud", time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}
}
