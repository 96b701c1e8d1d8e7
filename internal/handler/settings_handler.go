package handler

import (
	"log"

	"validade-backend/internal/model"
	"validade-backend/internal/repository"
	"validade-backend/internal/service"
	"validade-backend/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	settings repository.SettingsRepository
	products service.ProductService
}

func NewSettingsHandler(settings repository.SettingsRepository, products service.ProductService) *SettingsHandler {
	return &SettingsHandler{settings: settings, products: products}
}

func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	cfg, err := h.settings.Get()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(cfg)
}

// UpdateSettings saves the new lead time / alert time and rebuilds
// every pending reminder, since both feed the trigger computation.
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	var cfg model.Settings
	if err := c.BodyParser(&cfg); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&cfg); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{
			"error":  "Validation failed",
			"detail": errs[0].FailedField + " failed on tag " + errs[0].Tag,
		})
	}

	if err := h.settings.Update(&cfg); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	if err := h.products.RescheduleAll(); err != nil {
		log.Printf("settings saved but reschedule failed: %v", err)
	}

	return c.JSON(fiber.Map{"message": "Settings updated", "data": cfg})
}
