package handler

import (
	"errors"

	"validade-backend/internal/i18n"
	"validade-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type BackupHandler struct {
	service service.BackupService
	msgs    *i18n.Catalog
}

func NewBackupHandler(s service.BackupService, msgs *i18n.Catalog) *BackupHandler {
	return &BackupHandler{service: s, msgs: msgs}
}

func (h *BackupHandler) Export(c *fiber.Ctx) error {
	payload, err := h.service.Export()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="validade-backup.json"`)
	return c.JSON(payload)
}

// Import swaps the whole dataset for the uploaded backup. A rejected
// file gets a distinct "invalid file" message and leaves the existing
// data untouched.
func (h *BackupHandler) Import(c *fiber.Ctx) error {
	if err := h.service.Import(c.Body()); err != nil {
		if errors.Is(err, service.ErrInvalidBackup) {
			return c.Status(400).JSON(fiber.Map{"error": h.msgs.ErrInvalidBackup(), "detail": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(fiber.Map{"message": "Backup restored"})
}
