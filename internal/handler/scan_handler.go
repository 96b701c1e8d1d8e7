package handler

import (
	"validade-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ScanHandler struct {
	service service.ProductService
}

func NewScanHandler(s service.ProductService) *ScanHandler {
	return &ScanHandler{service: s}
}

// Prefill answers a barcode scan with whatever can be filled in ahead
// of the user: the local history match, a shared-catalog name, or an
// empty suggestion. This endpoint never errors on lookup failure.
func (h *ScanHandler) Prefill(c *fiber.Ctx) error {
	barcode := c.Params("barcode")
	if barcode == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Missing barcode"})
	}

	suggestion, err := h.service.Prefill(c.Context(), barcode)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(suggestion)
}
