package auth

import (
	"testing"
	"time"

	"stringbox/config"
	"stringbox/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.SecretKey.Refresh = "test_refresh_secret_key_very_long_for_testing"

	return cfg
}

func TestJWTService_IssueAndDecodeTokens(t *testing.T) {
	svc, err := NewJWTService(testConfig())
	require.NoError(t, err)

	userID := uuid.New()
	email := "test@example.com"

	accessToken, err := svc.IssueAccessToken(userID, email)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)

	refreshToken, err := svc.IssueRefreshToken(userID, email)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	accessClaims, err := svc.DecodeAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, accessClaims.UserID)
	assert.Equal(t, email, accessClaims.Email)
	assert.Equal(t, service.TokenKindAccess, accessClaims.Kind)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), accessClaims.ExpiresAt, 5*time.Second)

	refreshClaims, err := svc.DecodeRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, refreshClaims.UserID)
	assert.Equal(t, service.TokenKindRefresh, refreshClaims.Kind)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), refreshClaims.ExpiresAt, 5*time.Second)
}

func TestJWTService_SecretsAreNotInterchangeable(t *testing.T) {
	svc, err := NewJWTService(testConfig())
	require.NoError(t, err)

	userID := uuid.New()

	// An access token never verifies under the refresh secret, and vice versa.
	accessToken, err := svc.IssueAccessToken(userID, "a@b.com")
	require.NoError(t, err)
	_, err = svc.DecodeRefreshToken(accessToken)
	assert.ErrorIs(t, err, service.ErrTokenInvalid)

	refreshToken, err := svc.IssueRefreshToken(userID, "a@b.com")
	require.NoError(t, err)
	_, err = svc.DecodeAccessToken(refreshToken)
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestJWTService_DecodeAccessToken_DoesNotCheckKind(t *testing.T) {
	// The access decode path only verifies signature and expiry; kind
	// enforcement is the auth gate's job. A refresh-kind token signed with
	// the access secret must decode and expose its kind.
	svc := &jwtService{
		accessSecret:  []byte("access-secret"),
		refreshSecret: []byte("refresh-secret"),
		accessTTL:     accessTokenTTL,
		refreshTTL:    refreshTokenTTL,
	}

	token, err := svc.sign(uuid.New(), "a@b.com", service.TokenKindRefresh, time.Minute, svc.accessSecret)
	require.NoError(t, err)

	claims, err := svc.DecodeAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, service.TokenKindRefresh, claims.Kind)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := &jwtService{
		accessSecret:  []byte("access-secret"),
		refreshSecret: []byte("refresh-secret"),
		accessTTL:     accessTokenTTL,
		refreshTTL:    refreshTokenTTL,
	}

	expired, err := svc.sign(uuid.New(), "a@b.com", service.TokenKindAccess, -time.Minute, svc.accessSecret)
	require.NoError(t, err)

	_, err = svc.DecodeAccessToken(expired)
	assert.ErrorIs(t, err, service.ErrTokenExpired)

	expiredRefresh, err := svc.sign(uuid.New(), "a@b.com", service.TokenKindRefresh, -time.Minute, svc.refreshSecret)
	require.NoError(t, err)

	_, err = svc.DecodeRefreshToken(expiredRefresh)
	assert.ErrorIs(t, err, service.ErrTokenExpired)
}

func TestJWTService_TamperedToken(t *testing.T) {
	svc, err := NewJWTService(testConfig())
	require.NoError(t, err)

	token, err := svc.IssueAccessToken(uuid.New(), "a@b.com")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = svc.DecodeAccessToken(tampered)
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestJWTService_MalformedToken(t *testing.T) {
	svc, err := NewJWTService(testConfig())
	require.NoError(t, err)

	_, err = svc.DecodeAccessToken("clearly-not-a-jwt-token-format")
	assert.ErrorIs(t, err, service.ErrTokenInvalid)

	_, err = svc.DecodeRefreshToken("")
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestJWTService_EmptySecrets(t *testing.T) {
	cfg := &config.Config{}

	svc, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, svc)
	assert.Contains(t, err.Error(), "jwt secrets must be provided")
}

func TestJWTService_TTLs(t *testing.T) {
	svc, err := NewJWTService(testConfig())
	assert.NoError(t, err)

	assert.Equal(t, 30*time.Minute, svc.AccessTokenTTL())
	assert.Equal(t, 7*24*time.Hour, svc.RefreshTokenTTL())
}
