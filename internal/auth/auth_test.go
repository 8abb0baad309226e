package auth

import (
	"testing"
	"time"

	"finance-tracker/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(secret string, ttl time.Duration) *TokenService {
	cfg := config.Default()
	cfg.JWTSecret = secret
	cfg.JWTExpiresIn = ttl
	return NewTokenService(cfg)
}

func TestTokenRoundTrip(t *testing.T) {
	ts := newTestTokenService("test-secret", time.Hour)

	token, exp, err := ts.GenerateToken("user-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	userID, err := ts.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	ts := newTestTokenService("test-secret", time.Minute)
	ts.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := ts.GenerateToken("user-1")
	require.NoError(t, err)

	ts.now = time.Now
	_, err = ts.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	issuer := newTestTokenService("secret-a", time.Hour)
	verifier := newTestTokenService("secret-b", time.Hour)

	token, _, err := issuer.GenerateToken("user-1")
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsMissingSubject(t *testing.T) {
	ts := newTestTokenService("test-secret", time.Hour)
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ts.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	ts := newTestTokenService("test-secret", time.Hour)
	_, err := ts.ParseToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, CheckPassword("s3cret!", hash))
	assert.False(t, CheckPassword("wrong", hash))
}
