package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aryamansrivastava/account-service/config"
	"github.com/aryamansrivastava/account-service/internal/auth/handler"
	"github.com/aryamansrivastava/account-service/internal/auth/service"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestOptions_GraphIsComplete(t *testing.T) {
	require.NoError(t, fx.ValidateApp(options()))
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:              "secret",
		JWTExpiryHours:         8,
		SessionSecret:          "session-secret",
		SessionMaxAgeMinutes:   60,
		SessionCookieName:      "sid",
		RateLimitMax:           10,
		RateLimitWindowSeconds: 60,
		BcryptCost:             4,
		CORSOrigins:            "http://localhost:3000",
	}
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	return newTestAppWithConfig(t, testConfig())
}

func newTestAppWithConfig(t *testing.T, cfg *config.Config) *fiber.App {
	t.Helper()
	tokens := newTokenService(cfg)
	sessions := newSessionManager(cfg, nil)
	users := service.NewUserService(nil, nil, nil, tokens, newPasswordHasher(cfg))

	return newApp(appParams{
		Config:   cfg,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Auth:     newAuthHandler(cfg, users, tokens, sessions),
		Users:    handler.NewUserHandler(users),
		Sessions: handler.NewSessionHandler(service.NewSessionService(nil)),
		Devices:  handler.NewDeviceHandler(service.NewDeviceService(nil)),
		Gate:     handler.NewAuthGate(tokens, sessions),
		Limiter:  newRateLimiter(cfg, nil),
	})
}

func TestNewApp_Middleware(t *testing.T) {
	app := newTestApp(t)

	t.Run("request id and error envelope", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/verify-token", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/login", nil)
		req.Header.Set(fiber.HeaderOrigin, "http://localhost:3000")
		req.Header.Set(fiber.HeaderAccessControlRequestMethod, http.MethodPost)

		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, "http://localhost:3000", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
		assert.Equal(t, "true", resp.Header.Get(fiber.HeaderAccessControlAllowCredentials))
	})

	t.Run("token issued by the wired service verifies", func(t *testing.T) {
		token, err := newTokenService(testConfig()).Issue("user-1", "a@b.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/verify-token", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestNewApp_WithoutSigningSecret(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = ""
	app := newTestAppWithConfig(t, cfg)

	token, err := newTokenService(testConfig()).Issue("user-1", "a@b.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/verify-token", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
