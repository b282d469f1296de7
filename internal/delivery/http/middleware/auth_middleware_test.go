package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"stringbox/config"
	domainerrors "stringbox/internal/domain/errors"
	"stringbox/internal/infra/auth"
	"stringbox/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthMiddleware(t *testing.T) (*AuthMiddleware, string, string) {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-access-secret"
	cfg.SecretKey.Refresh = "test-refresh-secret"

	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	userID := uuid.New()
	accessToken, err := tokenSvc.IssueAccessToken(userID, "gate@example.com")
	require.NoError(t, err)
	refreshToken, err := tokenSvc.IssueRefreshToken(userID, "gate@example.com")
	require.NoError(t, err)

	return NewAuthMiddleware(tokenSvc, metrics.New(prometheus.NewRegistry())), accessToken, refreshToken
}

func invokeGate(t *testing.T, m *AuthMiddleware, authHeader string) (echo.Context, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/strings/save", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}

	return c, m.Authenticate(next)(c)
}

func TestAuthMiddleware_ValidAccessToken(t *testing.T) {
	m, accessToken, _ := newTestAuthMiddleware(t)

	c, err := invokeGate(t, m, "Bearer "+accessToken)

	require.NoError(t, err)
	assert.NotNil(t, c.Get(ContextKeyUserID))
	assert.Equal(t, "gate@example.com", c.Get(ContextKeyEmail))
}

func TestAuthMiddleware_SchemeIsCaseInsensitive(t *testing.T) {
	m, accessToken, _ := newTestAuthMiddleware(t)

	_, err := invokeGate(t, m, "bearer "+accessToken)
	require.NoError(t, err)

	_, err = invokeGate(t, m, "BEARER "+accessToken)
	require.NoError(t, err)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	m, _, _ := newTestAuthMiddleware(t)

	_, err := invokeGate(t, m, "")

	assert.ErrorIs(t, err, domainerrors.ErrMissingToken)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	m, accessToken, _ := newTestAuthMiddleware(t)

	tests := []struct {
		name   string
		header string
	}{
		{"no scheme", accessToken},
		{"wrong scheme", "Basic " + accessToken},
		{"three fields", "Bearer " + accessToken + " extra"},
		{"scheme only", "Bearer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := invokeGate(t, m, tt.header)
			assert.ErrorIs(t, err, domainerrors.ErrMissingToken)
		})
	}
}

func TestAuthMiddleware_RefreshTokenRejectedAsWrongKind(t *testing.T) {
	m, _, refreshToken := newTestAuthMiddleware(t)

	// A genuine refresh token is called out as the wrong kind, not lumped
	// in with forged tokens, even though it fails the access-secret check.
	_, err := invokeGate(t, m, "Bearer "+refreshToken)

	assert.ErrorIs(t, err, domainerrors.ErrInvalidTokenType)
}

func TestAuthMiddleware_TamperedRefreshTokenIsInvalid(t *testing.T) {
	m, _, refreshToken := newTestAuthMiddleware(t)

	// Corrupting the signature demotes the token from wrong-kind to invalid.
	_, err := invokeGate(t, m, "Bearer "+refreshToken+"x")

	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	m, _, _ := newTestAuthMiddleware(t)

	_, err := invokeGate(t, m, "Bearer not-a-token")

	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
}
