package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/transitlink-ussd/internal/storage"
)

// ReferenceHandler exposes the companies and routes shown in the menus
type ReferenceHandler struct {
	store storage.ReferenceStore
}

// NewReferenceHandler creates a new reference data handler
func NewReferenceHandler(store storage.ReferenceStore) *ReferenceHandler {
	return &ReferenceHandler{
		store: store,
	}
}

// ListCompanies returns companies in menu order
func (h *ReferenceHandler) ListCompanies(c *fiber.Ctx) error {
	companies, err := h.store.ListCompanies(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"companies": companies,
		"count":     len(companies),
	})
}

// ListRoutes returns the routes of one company in menu order
func (h *ReferenceHandler) ListRoutes(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid company id",
		})
	}

	routes, err := h.store.ListRoutes(c.UserContext(), uint(id))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"routes": routes,
		"count":  len(routes),
	})
}
