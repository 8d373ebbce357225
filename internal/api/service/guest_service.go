package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "tictak"

var ErrInvalidToken = errors.New("invalid token")

// GuestService issues and verifies guest session tokens.
type GuestService interface {
	GuestLogin(ctx context.Context) (token string, playerID string, err error)
	VerifyToken(token string) (playerID string, err error)
}

type guestService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewGuestService creates a GuestService signing HS256 tokens valid for ttl.
func NewGuestService(secret string, ttl time.Duration) GuestService {
	return &guestService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GuestLogin generates a UUID for a guest player and a token carrying it.
func (s *guestService) GuestLogin(ctx context.Context) (string, string, error) {
	playerID := uuid.New().String()
	now := s.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   playerID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign guest token: %w", err)
	}
	return tokenString, playerID, nil
}

// VerifyToken returns the player id of a valid token.
func (s *guestService) VerifyToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", fmt.Errorf("%w: subject is not a player id", ErrInvalidToken)
	}
	return claims.Subject, nil
}
