package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/procert/registry-backend/internal/models"
	"github.com/procert/registry-backend/internal/service"
	"github.com/procert/registry-backend/pkg/utils"
)

type AuthHandler struct {
	authService *service.AuthService
	validator   *utils.Validator
}

func NewAuthHandler(authService *service.AuthService, validator *utils.Validator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
	}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(h.validator.FieldErrors(err)))
	}

	resp, err := h.authService.Login(req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse(err.Error()))
		}
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   resp.Token,
		"user":    resp.User,
	})
}
