// Package middleware contains the HTTP middleware of the delivery layer.
package middleware

import (
	"strings"

	domainerrors "stringbox/internal/domain/errors"
	"stringbox/internal/domain/service"
	"stringbox/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Context keys set by the auth gate for downstream handlers.
const (
	ContextKeyUserID = "userID"
	ContextKeyEmail  = "email"
)

// AuthMiddleware gates protected routes behind a valid access token.
//
// The gate is pure token verification: it does not look the user up, so a
// deleted user's still-valid access token is accepted until it expires.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	metrics  *metrics.Metrics
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, m *metrics.Metrics) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, metrics: m}
}

// Authenticate validates the bearer access token and injects the caller's
// identity into the request context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, err := extractBearerToken(c.Request().Header.Get("Authorization"))
		if err != nil {
			m.metrics.AuthFailure.WithLabelValues(metrics.TypeGate).Inc()

			return err
		}

		claims, err := m.tokenSvc.DecodeAccessToken(tokenString)
		if err != nil {
			m.metrics.AuthFailure.WithLabelValues(metrics.TypeGate).Inc()
			if errors.Is(err, service.ErrTokenExpired) {
				return domainerrors.ErrTokenExpired
			}

			// A validly signed refresh token is a kind mismatch, not a
			// forged token. The secrets differ, so it fails the access
			// decode on signature; distinguish it here.
			if _, refreshErr := m.tokenSvc.DecodeRefreshToken(tokenString); refreshErr == nil {
				return domainerrors.ErrInvalidTokenType
			}

			return domainerrors.ErrInvalidToken
		}

		// A refresh token with a valid signature must still be rejected here.
		if claims.Kind != service.TokenKindAccess {
			m.metrics.AuthFailure.WithLabelValues(metrics.TypeGate).Inc()

			return domainerrors.ErrInvalidTokenType
		}

		m.metrics.AuthSuccess.WithLabelValues(metrics.TypeGate).Inc()

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyEmail, claims.Email)

		return next(c)
	}
}

// extractBearerToken parses an Authorization header of exactly two
// whitespace-separated fields with a case-insensitive "Bearer" scheme.
func extractBearerToken(header string) (string, error) {
	if header == "" {
		return "", domainerrors.ErrMissingToken
	}

	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "bearer") {
		return "", domainerrors.ErrMissingToken
	}

	return fields[1], nil
}
