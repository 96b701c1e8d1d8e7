package handler

import (
	"errors"

	"validade-backend/internal/i18n"
	"validade-backend/internal/repository"
	"validade-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProductHandler struct {
	service service.ProductService
	msgs    *i18n.Catalog
}

func NewProductHandler(s service.ProductService, msgs *i18n.Catalog) *ProductHandler {
	return &ProductHandler{service: s, msgs: msgs}
}

// Helper to parse a UUID path param
func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

func (h *ProductHandler) statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return 400, h.msgs.ErrValidation()
	case errors.Is(err, service.ErrNotFound):
		return 404, h.msgs.ErrNotFound()
	default:
		return 500, h.msgs.ErrSaveFailed()
	}
}

func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	sort := c.Query("sort", repository.SortByExpiry)

	products, err := h.service.ListActive(sort)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

func (h *ProductHandler) ListArchived(c *fiber.Ctx) error {
	products, err := h.service.ListArchived()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.SaveProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.Create(req)
	if err != nil {
		status, msg := h.statusFor(err)
		return c.Status(status).JSON(fiber.Map{"error": msg, "detail": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.SaveProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.Update(id, req)
	if err != nil {
		status, msg := h.statusFor(err)
		return c.Status(status).JSON(fiber.Map{"error": msg, "detail": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.service.Delete(id); err != nil {
		status, msg := h.statusFor(err)
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	return c.JSON(fiber.Map{"message": "Product deleted"})
}

type archiveRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func (h *ProductHandler) ArchiveProducts(c *fiber.Ctx) error {
	var req archiveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.ArchiveMany(req.IDs); err != nil {
		status, msg := h.statusFor(err)
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	return c.JSON(fiber.Map{"message": "Products archived", "count": len(req.IDs)})
}

func (h *ProductHandler) RestoreProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.service.Restore(id)
	if err != nil {
		status, msg := h.statusFor(err)
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	return c.JSON(fiber.Map{"message": "Product restored", "data": product})
}
