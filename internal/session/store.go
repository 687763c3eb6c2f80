package session

import (
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Store holds the current bearer token. The zero value is an empty session
// and is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	token  string
	issued time.Time
}

// Claims is an unverified peek at a JWT payload, for display only.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// SetToken replaces the session token. A blank token clears the session.
func (s *Store) SetToken(token string) {
	token = normalize(token)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" {
		s.token = ""
		s.issued = time.Time{}
		return
	}
	s.token = token
	s.issued = time.Now()
}

// Token returns the current token and whether one is present.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Active reports whether a token is present.
func (s *Store) Active() bool {
	_, ok := s.Token()
	return ok
}

// IssuedAt returns when the current token was stored.
func (s *Store) IssuedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.issued
}

// Clear destroys the session.
func (s *Store) Clear() {
	s.SetToken("")
}

// Claims decodes the token payload without verifying it. Tokens that are not
// JWTs yield zero Claims.
func (s *Store) Claims() Claims {
	token, ok := s.Token()
	if !ok {
		return Claims{}
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Claims{}
	}
	out := Claims{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out
}

func normalize(token string) string {
	token = strings.TrimSpace(token)
	if len(token) >= 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}
