package handler

import (
	"validade-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
)

type PhotoHandler struct {
	photos *storage.PhotoStore
}

func NewPhotoHandler(photos *storage.PhotoStore) *PhotoHandler {
	return &PhotoHandler{photos: photos}
}

// Upload stages a captured photo. The returned path goes into the save
// request; a photo never promoted just stays in the staging dir.
func (h *PhotoHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("photo")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Missing photo file"})
	}

	path, err := h.photos.SaveStaged(file)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"photo_path": path})
}
