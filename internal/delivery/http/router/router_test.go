package router

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stringbox/config"
	appmiddleware "stringbox/internal/delivery/http/middleware"
	"stringbox/internal/delivery/http/router/handler"
	"stringbox/internal/delivery/http/validator"
	"stringbox/internal/infra/auth"
	"stringbox/internal/infra/metrics"
	"stringbox/internal/infra/persistence/memory"
	"stringbox/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer assembles the full HTTP surface against the in-memory
// backend, mirroring the production wiring minus the transport.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	cfg := &config.Config{}
	cfg.Env.Env = config.EnvTesting
	cfg.Env.ServiceName = "stringbox"
	cfg.SecretKey.Access = "test-access-secret"
	cfg.SecretKey.Refresh = "test-refresh-secret"
	cfg.Auth = &config.AuthConfig{BcryptCost: 4}

	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	store := memory.NewStore()
	m := metrics.New(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	authUsecase := impl.NewAuthService(impl.AuthServiceParams{
		TxManager:    memory.NewTransactionManager(store),
		UserRepo:     memory.NewUserRepository(store),
		Hasher:       auth.NewBcryptHasher(cfg),
		TokenService: tokenSvc,
		Metrics:      m,
		Logger:       logger,
	})
	stringUsecase := impl.NewStringService(impl.StringServiceParams{
		TxManager:  memory.NewTransactionManager(store),
		StringRepo: memory.NewStringRepository(store),
		Metrics:    m,
		Logger:     logger,
	})

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = appmiddleware.NewErrorMiddleware(logger).HandleHTTPError

	r := NewRouter(RouterParams{
		AuthHandler:    handler.NewAuthHandler(authUsecase),
		StringHandler:  handler.NewStringHandler(stringUsecase),
		HealthHandler:  handler.NewHealthHandler(cfg, store),
		DocsHandler:    handler.NewDocsHandler(cfg),
		AuthMiddleware: appmiddleware.NewAuthMiddleware(tokenSvc, m),
	})
	r.RegisterRoutes(e)

	return e
}

func doJSON(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestAPI_RegisterLoginSaveRandom(t *testing.T) {
	e := newTestServer(t)

	// Register.
	rec := doJSON(e, http.MethodPost, "/api/v1/auth/register",
		`{"email":"a@b.com","password":"password123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	registered := decodeBody(t, rec)
	assert.Equal(t, "success", registered["status"])
	assert.Equal(t, "bearer", registered["token_type"])
	assert.NotEmpty(t, registered["access_token"])
	assert.NotEmpty(t, registered["refresh_token"])

	// Login with the same credentials.
	rec = doJSON(e, http.MethodPost, "/api/v1/auth/login",
		`{"email":"a@b.com","password":"password123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	loggedIn := decodeBody(t, rec)
	accessToken, ok := loggedIn["access_token"].(string)
	require.True(t, ok)

	// Save with the access token.
	rec = doJSON(e, http.MethodPost, "/api/v1/strings/save", `{"string":"hi"}`, accessToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	saved := decodeBody(t, rec)
	assert.Equal(t, "success", saved["status"])
	assert.EqualValues(t, 1, saved["id"])

	// Random fetch returns the only stored value.
	rec = doJSON(e, http.MethodGet, "/api/v1/strings/random", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hi", decodeBody(t, rec)["random_string"])
}

func TestAPI_Register_DuplicateEmail(t *testing.T) {
	e := newTestServer(t)
	body := `{"email":"dup@b.com","password":"password123"}`

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/register", body, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/auth/register", body, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	errBody := decodeBody(t, rec)
	assert.Equal(t, "failed", errBody["status"])
	assert.Equal(t, "Email already registered", errBody["message"])

	// The first registration still works.
	rec = doJSON(e, http.MethodPost, "/api/v1/auth/login", body, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_Register_Validation(t *testing.T) {
	e := newTestServer(t)

	tests := []struct {
		name        string
		contentType string
		body        string
		wantCode    int
		wantMessage string
	}{
		{"non-json body", echo.MIMETextPlain, `hello`, http.StatusBadRequest, "Request must be JSON"},
		{"missing email", echo.MIMEApplicationJSON, `{"password":"password123"}`, http.StatusBadRequest, "Email and password are required"},
		{"missing password", echo.MIMEApplicationJSON, `{"email":"a@b.com"}`, http.StatusBadRequest, "Email and password are required"},
		{"short password", echo.MIMEApplicationJSON, `{"email":"a@b.com","password":"short"}`, http.StatusBadRequest, "Password must be at least 8 characters long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, tt.contentType)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, "failed", body["status"])
			assert.Equal(t, tt.wantMessage, body["message"])
		})
	}
}

func TestAPI_Login_IndistinguishableFailure(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/register",
		`{"email":"known@b.com","password":"password123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	wrongPassword := doJSON(e, http.MethodPost, "/api/v1/auth/login",
		`{"email":"known@b.com","password":"wrongpassword"}`, "")
	unknownEmail := doJSON(e, http.MethodPost, "/api/v1/auth/login",
		`{"email":"unknown@b.com","password":"password123"}`, "")

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	// Identical bodies, so a caller cannot tell which accounts exist.
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Equal(t, "Invalid email or password", decodeBody(t, wrongPassword)["message"])
}

func TestAPI_Refresh(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/register",
		`{"email":"refresh@b.com","password":"password123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	refreshToken := decodeBody(t, rec)["refresh_token"].(string)

	rec = doJSON(e, http.MethodPost, "/api/v1/auth/refresh",
		`{"refresh_token":"`+refreshToken+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["access_token"])
	// Refresh never rotates the refresh token.
	assert.NotContains(t, body, "refresh_token")
}

func TestAPI_Refresh_Invalid(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/refresh",
		`{"refresh_token":"garbage"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/auth/refresh", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Refresh token is required", decodeBody(t, rec)["message"])
}

func TestAPI_Save_RequiresAuth(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/strings/save", `{"string":"hi"}`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "failed", body["status"])
	assert.Equal(t, "Missing authentication token", body["message"])
}

func TestAPI_Save_RefreshTokenRejectedAsWrongKind(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/register",
		`{"email":"kind@b.com","password":"password123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	refreshToken := decodeBody(t, rec)["refresh_token"].(string)

	// A real refresh token on a protected route is a kind mismatch.
	rec = doJSON(e, http.MethodPost, "/api/v1/strings/save", `{"string":"hi"}`, refreshToken)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "failed", body["status"])
	assert.Equal(t, "Invalid token type", body["message"])
}

func TestAPI_Save_StringValidation(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/register",
		`{"email":"save@b.com","password":"password123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	accessToken := decodeBody(t, rec)["access_token"].(string)

	save := func(value string) *httptest.ResponseRecorder {
		payload, err := json.Marshal(map[string]string{"string": value})
		require.NoError(t, err)

		return doJSON(e, http.MethodPost, "/api/v1/strings/save", string(payload), accessToken)
	}

	assert.Equal(t, http.StatusBadRequest, save("").Code)
	assert.Equal(t, "No string provided", decodeBody(t, save(""))["message"])

	assert.Equal(t, http.StatusBadRequest, save("   \t ").Code)
	assert.Equal(t, "String cannot be empty or just whitespace", decodeBody(t, save("  "))["message"])

	assert.Equal(t, http.StatusBadRequest, save(strings.Repeat("a", 10001)).Code)
	assert.Equal(t, "String exceeds maximum length", decodeBody(t, save(strings.Repeat("a", 10001)))["message"])

	assert.Equal(t, http.StatusCreated, save("x").Code)
	assert.Equal(t, http.StatusCreated, save(strings.Repeat("b", 10000)).Code)
}

func TestAPI_Random_EmptyStore(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/strings/random", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No strings found", decodeBody(t, rec)["message"])
}

func TestAPI_Random_CoversAllValues(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/register",
		`{"email":"rand@b.com","password":"password123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	accessToken := decodeBody(t, rec)["access_token"].(string)

	values := []string{"alpha", "beta", "gamma"}
	for _, v := range values {
		rec := doJSON(e, http.MethodPost, "/api/v1/strings/save", `{"string":"`+v+`"}`, accessToken)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	seen := make(map[string]bool)
	for range 200 {
		rec := doJSON(e, http.MethodGet, "/api/v1/strings/random", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		seen[decodeBody(t, rec)["random_string"].(string)] = true
	}

	// 200 draws over 3 values make a miss astronomically unlikely.
	for _, v := range values {
		assert.True(t, seen[v], "value %q never returned", v)
	}
}

func TestAPI_Probes(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody(t, rec)["status"])

	rec = doJSON(e, http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/health/detailed", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	detailed := decodeBody(t, rec)
	assert.Equal(t, "stringbox", detailed["service"])
	assert.Equal(t, "ok", detailed["storage"])
}

func TestAPI_OpenAPIDocument(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/swagger.json", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	doc := decodeBody(t, rec)
	assert.Equal(t, "3.0.3", doc["openapi"])
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	for _, p := range []string{
		"/api/v1/auth/register", "/api/v1/auth/login", "/api/v1/auth/refresh",
		"/api/v1/strings/save", "/api/v1/strings/random",
	} {
		assert.Contains(t, paths, p)
	}
}
