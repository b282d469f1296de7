// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"stringbox/config"
	"stringbox/internal/domain/service"
)

const (
	accessTokenTTL  = 30 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// jwtClaims is the wire format of the token payload.
type jwtClaims struct {
	Email string `json:"email"`
	Kind  string `json:"type"`
	jwt.RegisteredClaims
}

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// Access and refresh tokens are signed with separate secrets, so a refresh
// token can never pass signature verification on an access-only route.
type jwtService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewJWTService is the constructor for jwtService. It refuses empty secrets:
// an empty signing key would make every token forgeable.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	return &jwtService{
		accessSecret:  []byte(cfg.SecretKey.Access),
		refreshSecret: []byte(cfg.SecretKey.Refresh),
		accessTTL:     accessTokenTTL,
		refreshTTL:    refreshTokenTTL,
	}, nil
}

// IssueAccessToken creates a short-lived access token for the given user.
func (s *jwtService) IssueAccessToken(userID uuid.UUID, email string) (string, error) {
	return s.sign(userID, email, service.TokenKindAccess, s.accessTTL, s.accessSecret)
}

// IssueRefreshToken creates a long-lived refresh token for the given user.
func (s *jwtService) IssueRefreshToken(userID uuid.UUID, email string) (string, error) {
	return s.sign(userID, email, service.TokenKindRefresh, s.refreshTTL, s.refreshSecret)
}

// DecodeAccessToken verifies a token against the access secret.
func (s *jwtService) DecodeAccessToken(token string) (*service.Claims, error) {
	return s.decode(token, s.accessSecret)
}

// DecodeRefreshToken verifies a token against the refresh secret and
// requires the refresh kind.
func (s *jwtService) DecodeRefreshToken(token string) (*service.Claims, error) {
	claims, err := s.decode(token, s.refreshSecret)
	if err != nil {
		return nil, err
	}
	if claims.Kind != service.TokenKindRefresh {
		return nil, service.ErrTokenInvalid
	}

	return claims, nil
}

// AccessTokenTTL returns the lifetime of access tokens.
func (s *jwtService) AccessTokenTTL() time.Duration {
	return s.accessTTL
}

// RefreshTokenTTL returns the lifetime of refresh tokens.
func (s *jwtService) RefreshTokenTTL() time.Duration {
	return s.refreshTTL
}

func (s *jwtService) sign(userID uuid.UUID, email, kind string, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		Email: email,
		Kind:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

func (s *jwtService) decode(tokenString string, secret []byte) (*service.Claims, error) {
	var claims jwtClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, service.ErrTokenExpired
		}

		return nil, service.ErrTokenInvalid
	}
	if !token.Valid {
		return nil, service.ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, service.ErrTokenInvalid
	}

	decoded := &service.Claims{
		UserID: userID,
		Email:  claims.Email,
		Kind:   claims.Kind,
	}
	if claims.IssuedAt != nil {
		decoded.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		decoded.ExpiresAt = claims.ExpiresAt.Time
	}

	return decoded, nil
}
