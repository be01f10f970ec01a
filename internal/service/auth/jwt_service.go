package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService issues and validates the access and refresh tokens used by the
// API's authentication endpoints. Token lifetimes come from the auth
// configuration (token_lifetime_minutes and refresh_token_lifetime_minutes).
type JWTService interface {
	// GenerateToken issues a signed access token for the given user.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken checks a token string as an access token and returns its
	// claims. Fails with ErrExpiredToken, ErrWrongTokenType, or
	// ErrInvalidToken as appropriate.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken issues a signed refresh token for the given user.
	// Refresh tokens outlive access tokens and are exchanged at the refresh
	// endpoint for a new token pair.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateRefreshToken checks a token string as a refresh token and
	// returns its claims. An access token presented here fails with
	// ErrWrongTokenType.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the decoded content of a token issued by this service.
type Claims struct {
	// UserID identifies the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// TokenType is "access" or "refresh". Validation rejects tokens
	// presented in the wrong role.
	TokenType string `json:"type,omitempty"`

	// Registered JWT claims carried through from the signed token.
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
