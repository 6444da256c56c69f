// Package session holds the logged-in user's context: who they are and the
// token that authenticates them to the backend. Sessions are created on
// login, stored server-side and referenced from the browser by id only.
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/leapstack-labs/contratos/internal/api"
)

var (
	// ErrNoSession is returned when a request carries no known session.
	ErrNoSession = errors.New("no session")
	// ErrExpired is returned when the session exists but has expired.
	ErrExpired = errors.New("session expired")
)

// Session is an authenticated user. It implements api.Credentials.
type Session struct {
	ID        string
	Name      string
	Email     string
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

var _ api.Credentials = (*Session)(nil)

// New creates a session for a login result. The session ends when the
// access token expires, or after ttl when the token carries no expiry.
func New(auth api.Auth, now time.Time, ttl time.Duration) *Session {
	expires := now.Add(ttl)
	if exp, ok := TokenExpiry(auth.AccessToken); ok {
		expires = exp
	}
	return &Session{
		ID:        uuid.NewString(),
		Name:      auth.Name,
		Email:     auth.Email,
		Token:     auth.AccessToken,
		CreatedAt: now.UTC(),
		ExpiresAt: expires.UTC(),
	}
}

// AccessToken returns the bearer token for backend requests.
func (s *Session) AccessToken() string {
	if s == nil {
		return ""
	}
	return s.Token
}

// Expired reports whether the session has ended at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// DisplayName is how the user is greeted: the name, else the e-mail's
// local part.
func (s *Session) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	local, _, _ := strings.Cut(s.Email, "@")
	return local
}

// TokenExpiry reads the exp claim of a JWT access token. The signature is
// not verified; the backend does that on every request.
func TokenExpiry(token string) (time.Time, bool) {
	if strings.Count(token, ".") != 2 {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
