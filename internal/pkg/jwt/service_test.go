package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"

	"hiresight/internal/domain/user"

	"github.com/google/uuid"
)

func newTestService(t *testing.T) *HMACService {
	t.Helper()
	s, err := NewHMACService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return s
}

func TestNewHMACService_RejectsEmptySecret(t *testing.T) {
	if _, err := NewHMACService("  ", time.Hour); !errors.Is(err, ErrNoSecret) {
		t.Fatalf("expected ErrNoSecret, got %v", err)
	}
	if _, err := NewHMACService("secret", 0); err == nil {
		t.Fatalf("expected error for zero ttl")
	}
}

func TestHMACService_IssueVerifyRoundTrip(t *testing.T) {
	s := newTestService(t)

	roles := []user.Role{user.RoleCandidate, user.RoleRecruiter, user.RoleAdmin}
	for _, role := range roles {
		sub := Subject{
			UserID: uuid.New(),
			Name:   "Ada Lovelace",
			Email:  "ada@example.com",
			Role:   role,
		}
		tok, exp, err := s.Issue(sub)
		if err != nil {
			t.Fatalf("issue role=%s: %v", role, err)
		}
		if !exp.After(time.Now()) {
			t.Fatalf("expected expiry in the future, got %v", exp)
		}

		c, err := s.Verify(tok)
		if err != nil {
			t.Fatalf("verify role=%s: %v", role, err)
		}
		if c.UserID != sub.UserID || c.Name != sub.Name || c.Email != sub.Email || c.Role != sub.Role {
			t.Fatalf("claims mismatch: got %+v want %+v", c, sub)
		}
	}
}

func TestHMACService_VerifyFlippedSignature(t *testing.T) {
	s := newTestService(t)
	tok, _, err := s.Issue(Subject{UserID: uuid.New(), Name: "n", Email: "e@x.io", Role: user.RoleCandidate})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Flip a character in the middle of the signature; the final character
	// carries padding bits that decoders may ignore.
	i := strings.LastIndex(tok, ".") + 5
	flipped := byte('a')
	if tok[i] == 'a' {
		flipped = 'b'
	}
	tampered := tok[:i] + string(flipped) + tok[i+1:]

	if _, err := s.Verify(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestHMACService_VerifyWrongSecret(t *testing.T) {
	a := newTestService(t)
	b, err := NewHMACService("other-secret", time.Hour)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	tok, _, err := a.Issue(Subject{UserID: uuid.New(), Role: user.RoleRecruiter})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := b.Verify(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestHMACService_VerifyExpired(t *testing.T) {
	s := newTestService(t)
	issuedAt := time.Now().Add(-2 * time.Hour)
	s.now = func() time.Time { return issuedAt }

	tok, _, err := s.Issue(Subject{UserID: uuid.New(), Role: user.RoleCandidate})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	s.now = time.Now
	if _, err := s.Verify(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestHMACService_VerifyGarbage(t *testing.T) {
	s := newTestService(t)
	cases := map[string]error{
		"":                       ErrTokenMissing,
		"   ":                    ErrTokenMissing,
		"not-a-jwt":              ErrTokenInvalid,
		"a.b.c":                  ErrTokenInvalid,
		strings.Repeat("x", 300): ErrTokenInvalid,
	}
	for in, want := range cases {
		if _, err := s.Verify(in); !errors.Is(err, want) {
			t.Fatalf("verify(%q): expected %v, got %v", in, want, err)
		}
	}
}

func TestHMACService_IssueRejectsUnknownRole(t *testing.T) {
	s := newTestService(t)
	if _, _, err := s.Issue(Subject{UserID: uuid.New(), Role: user.Role("superuser")}); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
