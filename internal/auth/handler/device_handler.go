package handler

import (
	"github.com/aryamansrivastava/account-service/internal/auth/dto"
	"github.com/aryamansrivastava/account-service/internal/auth/service"
	autherror "github.com/aryamansrivastava/account-service/internal/errors"
	"github.com/gofiber/fiber/v2"
)

type DeviceHandler struct {
	deviceService *service.DeviceService
}

func NewDeviceHandler(deviceService *service.DeviceService) *DeviceHandler {
	return &DeviceHandler{deviceService: deviceService}
}

func (h *DeviceHandler) Create(c *fiber.Ctx) error {
	var input dto.CreateDeviceInput
	if err := c.BodyParser(&input); err != nil {
		return autherror.NewBadRequest("invalid input")
	}

	device, err := h.deviceService.Register(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"device": dto.NewDeviceOutput(device)})
}

// ListByUser takes the user id from the path.
func (h *DeviceHandler) ListByUser(c *fiber.Ctx) error {
	out, err := h.deviceService.ListForUser(c.UserContext(), c.Params("id"), string(c.Request().Header.UserAgent()))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(out)
}
