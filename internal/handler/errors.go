package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/procert/registry-backend/internal/models"
	"github.com/procert/registry-backend/internal/service"
)

// respondError maps service-layer failures onto the error taxonomy: 429
// for capacity, 404 for missing records, 400 for conflicts and rule
// violations, 500 for everything else.
func respondError(c *fiber.Ctx, err error) error {
	var limitErr *service.LimitReachedError
	if errors.As(err, &limitErr) {
		return c.Status(fiber.StatusTooManyRequests).JSON(models.LimitReachedResponse{
			Success:      false,
			Error:        limitErr.ErrorCode(),
			Message:      limitErr.Check.Message,
			CurrentCount: limitErr.Check.CurrentCount,
			Limit:        limitErr.Check.Limit,
		})
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Record not found"))
	case errors.Is(err, service.ErrDuplicateCode),
		errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, service.ErrDuplicateNumber),
		errors.Is(err, service.ErrAlreadyRevoked),
		errors.Is(err, service.ErrNotRevoked):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Duplicate value for a unique field"))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}
}
