package handler

import (
	"time"

	"github.com/aryamansrivastava/account-service/internal/auth/domain"
	"github.com/aryamansrivastava/account-service/internal/auth/dto"
	"github.com/aryamansrivastava/account-service/internal/auth/service"
	autherror "github.com/aryamansrivastava/account-service/internal/errors"
	"github.com/aryamansrivastava/account-service/internal/session"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	userService  *service.UserService
	tokenService service.TokenGenerator
	sessions     *session.Manager
	cookieSecure bool
}

func NewAuthHandler(
	userService *service.UserService,
	tokenService service.TokenGenerator,
	sessions *session.Manager,
	cookieSecure bool,
) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		tokenService: tokenService,
		sessions:     sessions,
		cookieSecure: cookieSecure,
	}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var input dto.SignupInput
	if err := c.BodyParser(&input); err != nil {
		return autherror.NewBadRequest("invalid input")
	}

	user, token, err := h.userService.Signup(c.UserContext(), input)
	if err != nil {
		return err
	}

	h.setTokenCookie(c, token)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "user registered successfully",
		"user":    dto.NewUserOutput(user),
		"token":   token,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return autherror.NewBadRequest("invalid input")
	}
	input.UserAgent = string(c.Request().Header.UserAgent())

	result, err := h.userService.Login(c.UserContext(), input)
	if err != nil {
		return err
	}

	user := result.User
	if err := h.sessions.Establish(c, domain.ServerSession{
		UserID:           user.ID,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		Email:            user.Email,
		Token:            result.Token,
		SessionStartTime: result.Session.StartTime,
	}); err != nil {
		return autherror.NewInternal(err)
	}

	h.setTokenCookie(c, result.Token)
	return c.Status(fiber.StatusOK).JSON(dto.LoginOutput{
		Message: "login successful",
		User: dto.LoginUser{
			ID:               user.ID,
			FirstName:        user.FirstName,
			LastName:         user.LastName,
			Email:            user.Email,
			SessionStartTime: result.Session.StartTime.Format(time.RFC3339),
		},
		Token: result.Token,
	})
}

// Logout destroys the server-side session and clears the token cookie. The
// issued token itself stays valid until it expires.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Destroy(c); err != nil {
		return autherror.NewLogoutError(err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "logged out successfully"})
}

func (h *AuthHandler) VerifyToken(c *fiber.Ctx) error {
	identity, _ := IdentityFrom(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"valid": true,
		"user": fiber.Map{
			"id":    identity.UserID,
			"email": identity.Email,
		},
	})
}

func (h *AuthHandler) setTokenCookie(c *fiber.Ctx, token string) {
	expiry := h.tokenService.GetTokenExpiry()
	c.Cookie(&fiber.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(expiry),
		MaxAge:   int(expiry.Seconds()),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
