package handler

import (
	"log/slog"
	"strings"
	"time"

	"github.com/aryamansrivastava/account-service/internal/auth/domain"
	"github.com/aryamansrivastava/account-service/internal/auth/service"
	autherror "github.com/aryamansrivastava/account-service/internal/errors"
	"github.com/aryamansrivastava/account-service/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/pkg/errors"
)

const (
	TokenCookieName = "token"
	identityLocal   = "identity"
	bearerPrefix    = "Bearer "
)

// tokenSource returns "" with a nil error when it has nothing to offer, so
// the gate moves on to the next source.
type tokenSource func(c *fiber.Ctx) (string, error)

type AuthGate struct {
	tokens   service.TokenGenerator
	sessions *session.Manager
}

func NewAuthGate(tokens service.TokenGenerator, sessions *session.Manager) *AuthGate {
	return &AuthGate{tokens: tokens, sessions: sessions}
}

// RequireAuth resolves the token from the server-side session, then the
// token cookie, then the Authorization header, in that order.
func (g *AuthGate) RequireAuth() fiber.Handler {
	return g.authenticate(g.sessionToken, cookieToken, bearerToken)
}

// RequireBearer only looks at the Authorization header.
func (g *AuthGate) RequireBearer() fiber.Handler {
	return g.authenticate(bearerToken)
}

func (g *AuthGate) authenticate(sources ...tokenSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var token string
		for _, source := range sources {
			t, err := source(c)
			if err != nil {
				return err
			}
			if t != "" {
				token = t
				break
			}
		}
		if token == "" {
			return autherror.NewUnauthenticated()
		}

		claims, err := g.tokens.Verify(token)
		if err != nil {
			if errors.Is(err, autherror.ErrMissingSigningSecret) {
				return autherror.NewConfiguration(err)
			}
			return autherror.NewInvalidOrExpiredToken(err)
		}

		c.Locals(identityLocal, domain.Identity{UserID: claims.UserID, Email: claims.Email})
		return c.Next()
	}
}

// sessionToken treats an unreadable session store as "no session" so the
// cookie and header can still authenticate the request.
func (g *AuthGate) sessionToken(c *fiber.Ctx) (string, error) {
	if g.sessions == nil {
		return "", nil
	}
	data, err := g.sessions.Current(c)
	if err != nil {
		slog.WarnContext(c.UserContext(), "session lookup failed", slog.String("error", err.Error()))
		return "", nil
	}
	if data == nil {
		return "", nil
	}
	return data.Token, nil
}

func cookieToken(c *fiber.Ctx) (string, error) {
	return c.Cookies(TokenCookieName), nil
}

func bearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", nil
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", autherror.NewMalformedAuth()
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", autherror.NewMalformedAuth()
	}
	return token, nil
}

// IdentityFrom returns the identity the gate attached to the request.
func IdentityFrom(c *fiber.Ctx) (domain.Identity, bool) {
	id, ok := c.Locals(identityLocal).(domain.Identity)
	return id, ok
}

// RequestLogger logs one line per request after the handler chain has run.
func RequestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()

		status := c.Response().StatusCode()
		if chainErr != nil {
			if appErr, ok := autherror.As(chainErr); ok {
				status = appErr.Code
			} else {
				var fiberErr *fiber.Error
				if errors.As(chainErr, &fiberErr) {
					status = fiberErr.Code
				} else {
					status = fiber.StatusInternalServerError
				}
			}
		}

		attrs := []slog.Attr{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("ip", c.IP()),
		}
		if rid, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok {
			attrs = append(attrs, slog.String("request_id", rid))
		}

		level := slog.LevelInfo
		switch {
		case status >= fiber.StatusInternalServerError:
			level = slog.LevelError
		case status >= fiber.StatusBadRequest:
			level = slog.LevelWarn
		}
		logger.LogAttrs(c.UserContext(), level, "http request", attrs...)

		return chainErr
	}
}
