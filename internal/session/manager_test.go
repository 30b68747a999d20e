package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aryamansrivastava/account-service/internal/auth/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionApp(m *Manager, middleware ...fiber.Handler) *fiber.App {
	app := fiber.New()
	for _, h := range middleware {
		app.Use(h)
	}

	app.Post("/establish", func(c *fiber.Ctx) error {
		return m.Establish(c, domain.ServerSession{
			UserID:           "user-1",
			Email:            "ada@example.com",
			Token:            "signed-token",
			SessionStartTime: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		})
	})
	app.Get("/current", func(c *fiber.Ctx) error {
		data, err := m.Current(c)
		if err != nil {
			return err
		}
		if data == nil {
			return c.SendStatus(http.StatusNoContent)
		}
		return c.JSON(data)
	})
	app.Post("/destroy", func(c *fiber.Ctx) error {
		return m.Destroy(c)
	})
	return app
}

func sessionCookie(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, ck := range resp.Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestManager_Lifecycle(t *testing.T) {
	m := NewManager(Options{CookieName: "sid", MaxAge: time.Hour})
	app := newSessionApp(m)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/establish", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := sessionCookie(t, resp, "sid")
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	req := httptest.NewRequest(http.MethodGet, "/current", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: cookie.Value})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/destroy", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: cookie.Value})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/current", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: cookie.Value})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode, "destroyed session must not resolve")
}

func TestManager_NoCookie(t *testing.T) {
	app := newSessionApp(NewManager(Options{CookieName: "sid", MaxAge: time.Hour}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/current", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestManager_RedisStorageAndEncryptedCookie(t *testing.T) {
	mr, client := newTestRedis(t)
	m := NewManager(Options{
		CookieName: "sid",
		MaxAge:     time.Hour,
		Storage:    NewRedisStorage(client, ""),
	})
	app := newSessionApp(m, EncryptCookies("test-session-secret", "token"))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/establish", nil))
	require.NoError(t, err)
	cookie := sessionCookie(t, resp, "sid")

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.NotEqual(t, "session:"+cookie.Value, keys[0], "cookie carries the encrypted id")
	assert.Equal(t, time.Hour, mr.TTL(keys[0]))

	req := httptest.NewRequest(http.MethodGet, "/current", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: cookie.Value})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Once the stored TTL lapses the cookie no longer resolves.
	mr.FastForward(time.Hour + time.Second)
	req = httptest.NewRequest(http.MethodGet, "/current", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: cookie.Value})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
