package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenLifetime = 24 * time.Hour

// JwtAuth issues and verifies HS256 signed tokens for the admin surface.
// Tokens are stateless, the claims carry everything the middleware needs.
type JwtAuth struct {
	secret []byte
}

func NewJwtAuth(secret string) (*JwtAuth, error) {
	if len(secret) < 32 {
		return nil, errors.New("jwt secret must be at least 32 characters")
	}
	return &JwtAuth{secret: []byte(secret)}, nil
}

type claims struct {
	jwt.RegisteredClaims

	Email   string
	IsAdmin bool
}

func (a *JwtAuth) IssueToken(identity Identity) (string, time.Time, error) {
	now := time.Now().UTC()
	expiration := now.Add(tokenLifetime)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserId.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiration),
		},
		Email:   identity.Email,
		IsAdmin: identity.IsAdmin,
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		slog.Error("error signing token", "error", err)
		return "", time.Time{}, errors.New("error issuing token")
	}

	return signed, expiration, nil
}

func (a *JwtAuth) VerifyToken(token string) (Identity, error) {
	var parsed claims
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("invalid token: %w", err)
	}

	userId, err := uuid.Parse(parsed.Subject)
	if err != nil {
		return Identity{}, fmt.Errorf("invalid token subject: %w", err)
	}

	return Identity{UserId: userId, Email: parsed.Email, IsAdmin: parsed.IsAdmin}, nil
}
