package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	s := NewSigner([]byte("secret"), "test", 15*time.Minute, 24*time.Hour)

	raw, err := s.IssueAccess(42)
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	id, err := s.VerifyAccess(raw)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if id != 42 {
		t.Fatalf("subject = %d, want 42", id)
	}
}

func TestTokenUseSeparation(t *testing.T) {
	s := NewSigner([]byte("secret"), "test", 15*time.Minute, 24*time.Hour)

	access, _ := s.IssueAccess(1)
	refresh, _ := s.IssueRefresh(1)

	if _, err := s.VerifyRefresh(access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token accepted as refresh: %v", err)
	}
	if _, err := s.VerifyAccess(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh token accepted as access: %v", err)
	}
}

func TestTokenExpiry(t *testing.T) {
	s := NewSigner([]byte("secret"), "test", -time.Minute, 24*time.Hour)

	raw, err := s.IssueAccess(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := s.VerifyAccess(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token accepted: %v", err)
	}
}

func TestTokenWrongKeyAndIssuer(t *testing.T) {
	a := NewSigner([]byte("secret-a"), "test", 15*time.Minute, 24*time.Hour)
	b := NewSigner([]byte("secret-b"), "test", 15*time.Minute, 24*time.Hour)
	c := NewSigner([]byte("secret-a"), "elsewhere", 15*time.Minute, 24*time.Hour)

	raw, _ := a.IssueAccess(1)
	if _, err := b.VerifyAccess(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token verified with wrong key: %v", err)
	}
	if _, err := c.VerifyAccess(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token verified with wrong issuer: %v", err)
	}
}
