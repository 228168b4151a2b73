// Package session holds the signed-in user as seen by API clients. It only
// reads the token the server issued and never verifies it; the server does.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"campushub/internal/models"
)

// Claims is the JWT payload the API issues on login.
type Claims struct {
	UserID   uint        `json:"user_id"`
	Role     models.Role `json:"role"`
	SchoolID uint        `json:"school_id,omitempty"`
	jwt.RegisteredClaims
}

// User is the current caller's identity.
type User struct {
	ID       uint
	Role     models.Role
	SchoolID uint
}

// Provider exposes the current user. ok is false when nobody is signed in.
type Provider interface {
	CurrentUser() (u User, ok bool)
}

// TokenSession keeps the bearer token and the user decoded from it.
type TokenSession struct {
	mu     sync.RWMutex
	token  string
	claims *Claims
	now    func() time.Time
}

func NewTokenSession() *TokenSession {
	return &TokenSession{now: time.Now}
}

// SetToken replaces the session token. The previous session is kept when the
// token cannot be decoded.
func (s *TokenSession) SetToken(token string) error {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return err
	}
	if !claims.Role.Valid() {
		return errors.New("token carries an unknown role")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.claims = claims
	return nil
}

// Clear signs the user out.
func (s *TokenSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.claims = nil
}

// Token returns the raw bearer token, or "" when signed out.
func (s *TokenSession) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *TokenSession) CurrentUser() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.claims == nil {
		return User{}, false
	}
	return User{ID: s.claims.UserID, Role: s.claims.Role, SchoolID: s.claims.SchoolID}, true
}

// IsAuthenticated reports whether a token is held and has not expired.
func (s *TokenSession) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.claims == nil {
		return false
	}
	if exp := s.claims.ExpiresAt; exp != nil && !s.now().Before(exp.Time) {
		return false
	}
	return true
}
