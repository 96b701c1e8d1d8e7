package handler

import (
	"errors"

	"validade-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

type pairRequest struct {
	PIN string `json:"pin"`
}

func (h *AuthHandler) Pair(c *fiber.Ctx) error {
	var req pairRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	token, err := h.service.Pair(req.PIN)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPIN) {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid PIN"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(fiber.Map{"token": token})
}
