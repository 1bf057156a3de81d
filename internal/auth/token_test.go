package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/jewelry-store/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:       "11111111-2222-3333-4444-555555555555",
		Email:    "a@x.com",
		Username: "a",
		Role:     domain.RoleAdmin,
	}
}

func TestGenerateAndParseRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	token, exp, err := tm.GenerateToken(testUser())
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", claims.Subject)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "a", claims.Username)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestParseExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	tm.ttl = -time.Minute

	token, _, err := tm.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-one", 60)
	verifier := NewTokenManager("secret-two", 60)

	token, _, err := issuer.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestParseMalformedToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	_, err := tm.ParseToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestExpiryFromTokenIgnoresSignatureAndExpiry(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	tm.ttl = -time.Hour

	token, _, err := tm.GenerateToken(testUser())
	require.NoError(t, err)

	// Already expired and checked with no key at all; only the exp claim matters.
	exp, err := ExpiryFromToken(token)
	require.NoError(t, err)
	assert.True(t, exp.Before(time.Now()))

	_, err = ExpiryFromToken("garbage")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
