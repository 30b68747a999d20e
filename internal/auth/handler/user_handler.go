package handler

import (
	"github.com/aryamansrivastava/account-service/internal/auth/dto"
	"github.com/aryamansrivastava/account-service/internal/auth/service"
	autherror "github.com/aryamansrivastava/account-service/internal/errors"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var input dto.SignupInput
	if err := c.BodyParser(&input); err != nil {
		return autherror.NewBadRequest("invalid input")
	}

	user, err := h.userService.CreateUser(c.UserContext(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "user created successfully",
		"user":    dto.NewUserOutput(user),
	})
}

func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	user, err := h.userService.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": dto.NewUserOutput(user)})
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.userService.ListUsers(c.UserContext(), dto.ListUsersInput{
		Page:   c.QueryInt("page", 1),
		Size:   c.QueryInt("size", service.DefaultPageSize),
		Search: c.Query("search"),
		Filter: c.Query("filter"),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	var input dto.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return autherror.NewBadRequest("invalid input")
	}

	user, err := h.userService.UpdateUser(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "user updated successfully",
		"user":    dto.NewUserOutput(user),
	})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.userService.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "user deleted successfully"})
}
