package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Token kinds. A token's kind must match the endpoint's expectation: routes
// protected by the auth gate only accept access tokens, and the refresh
// endpoint only accepts refresh tokens.
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

// Sentinel errors returned by token decoding. The delivery layer maps these
// to the distinguishing 401 responses; signature internals never leak.
var (
	// ErrTokenExpired is returned when a token is well-formed and correctly
	// signed but past its expiry.
	ErrTokenExpired = errors.New("token has expired")

	// ErrTokenInvalid is returned for any other decode failure: bad
	// signature, malformed token, or wrong kind.
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims is the decoded, verified content of a token.
type Claims struct {
	UserID    uuid.UUID // Subject: the user this token was issued for.
	Email     string    // The user's email at issuance time.
	Kind      string    // TokenKindAccess or TokenKindRefresh.
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService mints and validates self-contained signed tokens. It is
// stateless: any instance holding the two secrets can validate tokens issued
// by any other instance, so no shared token store is needed.
type TokenService interface {
	// IssueAccessToken creates a short-lived access token signed with the access secret.
	IssueAccessToken(userID uuid.UUID, email string) (string, error)

	// IssueRefreshToken creates a long-lived refresh token signed with the refresh secret.
	IssueRefreshToken(userID uuid.UUID, email string) (string, error)

	// DecodeAccessToken verifies signature and expiry against the access
	// secret. Fails with ErrTokenExpired or ErrTokenInvalid. Kind is not
	// checked here; the auth gate enforces it.
	DecodeAccessToken(token string) (*Claims, error)

	// DecodeRefreshToken verifies signature and expiry against the refresh
	// secret and additionally requires Kind == TokenKindRefresh.
	DecodeRefreshToken(token string) (*Claims, error)

	// AccessTokenTTL returns the configured lifetime of access tokens.
	AccessTokenTTL() time.Duration

	// RefreshTokenTTL returns the configured lifetime of refresh tokens.
	RefreshTokenTTL() time.Duration
}
