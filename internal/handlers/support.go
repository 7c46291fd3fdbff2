package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/transitlink-ussd/internal/storage"
)

// SupportHandler handles case report lookups
type SupportHandler struct {
	store storage.RecordStore
}

func NewSupportHandler(store storage.RecordStore) *SupportHandler {
	return &SupportHandler{
		store: store,
	}
}

// GetReport retrieves a case report by its reference code
func (h *SupportHandler) GetReport(c *fiber.Ctx) error {
	reference := c.Params("reference")
	report, err := h.store.GetCaseReportByReference(c.UserContext(), reference)
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Report not found",
		})
	}
	if err != nil {
		return err
	}
	return c.JSON(report)
}
