package handler

import (
	"github.com/aryamansrivastava/account-service/internal/auth/dto"
	"github.com/aryamansrivastava/account-service/internal/auth/service"
	autherror "github.com/aryamansrivastava/account-service/internal/errors"
	"github.com/gofiber/fiber/v2"
)

type SessionHandler struct {
	sessionService *service.SessionService
}

func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

func (h *SessionHandler) Start(c *fiber.Ctx) error {
	var input dto.StartSessionInput
	if err := c.BodyParser(&input); err != nil {
		return autherror.NewBadRequest("invalid input")
	}

	s, err := h.sessionService.StartSession(c.UserContext(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "session started",
		"data":    dto.NewSessionOutput(s),
	})
}

func (h *SessionHandler) GetByID(c *fiber.Ctx) error {
	s, err := h.sessionService.GetSession(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
		"data":   dto.NewSessionOutput(s),
	})
}
