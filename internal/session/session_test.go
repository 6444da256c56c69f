package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/contratos/internal/api"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)

	got, ok := TokenExpiry(signedToken(t, jwt.MapClaims{"sub": "1", "exp": exp.Unix()}))
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	_, ok = TokenExpiry(signedToken(t, jwt.MapClaims{"sub": "1"}))
	assert.False(t, ok, "no exp claim")

	_, ok = TokenExpiry("opaque-token")
	assert.False(t, ok)

	_, ok = TokenExpiry("a.b.c")
	assert.False(t, ok, "malformed segments")
}

func TestNew(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	s := New(api.Auth{AccessToken: "opaque", Name: "Ana", Email: "ana@x.com"}, now, time.Hour)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, now.Add(time.Hour), s.ExpiresAt)
	assert.Equal(t, "opaque", s.AccessToken())
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(time.Hour)))

	exp := now.Add(15 * time.Minute)
	jwtSess := New(api.Auth{AccessToken: signedToken(t, jwt.MapClaims{"exp": exp.Unix()})}, now, time.Hour)
	assert.True(t, exp.Equal(jwtSess.ExpiresAt), "token expiry wins over ttl")

	assert.NotEqual(t, s.ID, jwtSess.ID)
}

func TestSession_DisplayName(t *testing.T) {
	assert.Equal(t, "Ana", (&Session{Name: "Ana", Email: "ana@x.com"}).DisplayName())
	assert.Equal(t, "mario", (&Session{Email: "mario@modec.com"}).DisplayName())

	var nilSession *Session
	assert.Equal(t, "", nilSession.AccessToken())
}
