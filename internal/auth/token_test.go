package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/circa-backend/internal/domain"
)

func TestMintVerifyRoundTrip(t *testing.T) {
	minted := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tm := NewTokenManager("test-secret")
	tm.now = func() time.Time { return minted }

	token, expiresAt, err := tm.Mint("user-1", domain.RoleOrganizer)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, minted.Add(24*time.Hour), expiresAt)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, domain.RoleOrganizer, claims.Role)
	assert.Equal(t, 86400*time.Second, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestVerifyEveryRole(t *testing.T) {
	tm := NewTokenManager("test-secret")

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleOrganizer, domain.RoleStaff, domain.RoleVolunteer} {
		token, _, err := tm.Mint("user-1", role)
		require.NoError(t, err)

		claims, err := tm.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, role, claims.Role)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	minter := NewTokenManager("secret-a")
	verifier := NewTokenManager("secret-b")

	token, _, err := minter.Mint("user-1", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyExpired(t *testing.T) {
	minted := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tm := NewTokenManager("test-secret")
	tm.now = func() time.Time { return minted }

	token, _, err := tm.Mint("user-1", domain.RoleVolunteer)
	require.NoError(t, err)

	tm.now = func() time.Time { return minted.Add(24*time.Hour + time.Second) }
	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyMalformed(t *testing.T) {
	tm := NewTokenManager("test-secret")

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := tm.Verify(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	}
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	tm := NewTokenManager("test-secret")

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-1",
		"role": "superuser",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	token, err := raw.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	tm := NewTokenManager("test-secret")

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	token, err := raw.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsUnexpectedSigningMethod(t *testing.T) {
	tm := NewTokenManager("test-secret")

	raw := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub":  "user-1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	token, err := raw.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
