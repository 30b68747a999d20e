// Package session keeps the server-side session behind the session cookie.
// The cookie only carries an opaque id; the identity and token live in the
// configured fiber.Storage.
package session

import (
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/aryamansrivastava/account-service/internal/auth/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/pkg/errors"
)

const identityKey = "identity"

type Options struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
	// Storage defaults to fiber's in-memory storage when nil.
	Storage fiber.Storage
}

type Manager struct {
	store *session.Store
}

func NewManager(opts Options) *Manager {
	store := session.New(session.Config{
		Expiration:     opts.MaxAge,
		Storage:        opts.Storage,
		KeyLookup:      "cookie:" + opts.CookieName,
		CookieHTTPOnly: true,
		CookieSecure:   opts.Secure,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
	store.RegisterType(domain.ServerSession{})
	return &Manager{store: store}
}

// Establish starts a fresh session for the request, replacing any id the
// client presented.
func (m *Manager) Establish(c *fiber.Ctx, data domain.ServerSession) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return errors.Wrap(err, "load session")
	}
	if err := sess.Regenerate(); err != nil {
		return errors.Wrap(err, "regenerate session")
	}
	sess.Set(identityKey, data)
	return errors.Wrap(sess.Save(), "save session")
}

// Current returns nil when the request carries no live session.
func (m *Manager) Current(c *fiber.Ctx) (*domain.ServerSession, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return nil, errors.Wrap(err, "load session")
	}
	if sess.Fresh() {
		return nil, nil
	}
	data, ok := sess.Get(identityKey).(domain.ServerSession)
	if !ok {
		return nil, nil
	}
	return &data, nil
}

// Destroy drops the stored session and expires the cookie.
func (m *Manager) Destroy(c *fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return errors.Wrap(err, "load session")
	}
	return errors.Wrap(sess.Destroy(), "destroy session")
}

// EncryptCookies encrypts the session cookie with a key derived from secret.
// Cookies named in except pass through untouched.
func EncryptCookies(secret string, except ...string) fiber.Handler {
	sum := sha256.Sum256([]byte(secret))
	return encryptcookie.New(encryptcookie.Config{
		Key:    base64.StdEncoding.EncodeToString(sum[:]),
		Except: except,
	})
}
