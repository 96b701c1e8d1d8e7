package handler

import (
	"errors"

	"validade-backend/internal/mailer"
	"validade-backend/internal/service"
	"validade-backend/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

func (h *ReportHandler) ExpiredReport(c *fiber.Ctx) error {
	report, err := h.service.ExpiredReport()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(report)
}

type shareRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *ReportHandler) ShareExpired(c *fiber.Ctx) error {
	var req shareRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "A valid email address is required"})
	}

	if err := h.service.ShareExpired(req.Email); err != nil {
		if errors.Is(err, mailer.ErrNotConfigured) {
			return c.Status(503).JSON(fiber.Map{"error": "Email sharing is not configured"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to send report"})
	}

	return c.JSON(fiber.Map{"message": "Report sent"})
}
