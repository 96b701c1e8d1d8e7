package middleware

import (
	"strings"

	"validade-backend/internal/repository"
	"validade-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireDevice validates the bearer token and checks it still belongs
// to the paired device.
func RequireDevice(deviceRepo repository.DeviceRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		device, err := deviceRepo.FindByID(claims.DeviceID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Device not paired"})
		}

		c.Locals("device_id", device.ID.String())
		return c.Next()
	}
}
