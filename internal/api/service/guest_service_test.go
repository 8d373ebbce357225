package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestService_RoundTrip(t *testing.T) {
	s := NewGuestService("secret", time.Hour)

	token, playerID, err := s.GuestLogin(context.Background())
	require.NoError(t, err)
	_, err = uuid.Parse(playerID)
	require.NoError(t, err)

	got, err := s.VerifyToken(token)

	require.NoError(t, err)
	assert.Equal(t, playerID, got)
}

func TestGuestService_GuestsGetDistinctIDs(t *testing.T) {
	s := NewGuestService("secret", time.Hour)

	_, first, err := s.GuestLogin(context.Background())
	require.NoError(t, err)
	_, second, err := s.GuestLogin(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestGuestService_RejectsBadTokens(t *testing.T) {
	s := NewGuestService("secret", time.Hour)
	valid, _, err := s.GuestLogin(context.Background())
	require.NoError(t, err)

	expired := NewGuestService("secret", time.Hour).(*guestService)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _, err := expired.GuestLogin(context.Background())
	require.NoError(t, err)

	otherSecret, _, err := NewGuestService("other", time.Hour).GuestLogin(context.Background())
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	notAPlayer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"Garbage":        "not-a-token",
		"Tampered":       valid + "x",
		"Expired":        expiredToken,
		"Wrong secret":   otherSecret,
		"Unsigned":       noneAlg,
		"Subject not id": notAPlayer,
		"Empty":          "",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := s.VerifyToken(token)

			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
