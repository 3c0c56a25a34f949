package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/procert/registry-backend/internal/models"
	jwtPkg "github.com/procert/registry-backend/pkg/jwt"
)

// AuthMiddleware guards admin routes with the registry's bearer token.
func AuthMiddleware(tokens *jwtPkg.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Authorization header is required"))
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Invalid authorization header format"))
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Invalid token"))
		}

		email, ok := claims["email"].(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Invalid email in token"))
		}
		role, ok := claims["role"].(string)
		if !ok || role != "admin" {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Invalid role in token"))
		}

		c.Locals("adminEmail", email)
		c.Locals("role", role)

		return c.Next()
	}
}
