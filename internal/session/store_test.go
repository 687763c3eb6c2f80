package session

import (
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestStore_ZeroValueIsEmpty(t *testing.T) {
	var s Store
	if tok, ok := s.Token(); ok || tok != "" {
		t.Fatalf("Token() = %q, %v; want empty, false", tok, ok)
	}
	if s.Active() {
		t.Fatal("Active() = true on zero Store")
	}
	if !s.IssuedAt().IsZero() {
		t.Fatalf("IssuedAt = %v, want zero", s.IssuedAt())
	}
}

func TestStore_SetAndClear(t *testing.T) {
	var s Store

	before := time.Now()
	s.SetToken("  abc  ")
	tok, ok := s.Token()
	if !ok || tok != "abc" {
		t.Fatalf("Token() = %q, %v; want abc, true", tok, ok)
	}
	if s.IssuedAt().Before(before) {
		t.Fatalf("IssuedAt = %v, want >= %v", s.IssuedAt(), before)
	}

	s.SetToken("Bearer xyz")
	if tok, _ := s.Token(); tok != "xyz" {
		t.Fatalf("Token() = %q, want bearer prefix stripped", tok)
	}

	s.Clear()
	if s.Active() {
		t.Fatal("Active() = true after Clear")
	}

	s.SetToken("def")
	s.SetToken("   ")
	if s.Active() {
		t.Fatal("blank SetToken should clear the session")
	}
}

func TestStore_ClaimsPeek(t *testing.T) {
	var s Store
	if c := s.Claims(); c.Subject != "" || !c.ExpiresAt.IsZero() {
		t.Fatalf("Claims on empty store = %#v, want zero", c)
	}

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "vet@example.org",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("not-our-secret"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}

	s.SetToken(signed)
	c := s.Claims()
	if c.Subject != "vet@example.org" {
		t.Fatalf("Subject = %q, want vet@example.org", c.Subject)
	}
	if !c.ExpiresAt.Equal(exp) {
		t.Fatalf("ExpiresAt = %v, want %v", c.ExpiresAt, exp)
	}

	s.SetToken("opaque-token")
	if c := s.Claims(); c.Subject != "" {
		t.Fatalf("Claims for opaque token = %#v, want zero", c)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	var s Store
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetToken("tok")
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Token()
		}()
	}
	wg.Wait()
	if !s.Active() {
		t.Fatal("Active() = false after concurrent SetToken")
	}
}
