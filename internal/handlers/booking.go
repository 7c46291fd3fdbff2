package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/transitlink-ussd/internal/storage"
)

const maxBookingsPerQuery = 50

// BookingHandler handles booking lookups
type BookingHandler struct {
	store storage.RecordStore
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(store storage.RecordStore) *BookingHandler {
	return &BookingHandler{
		store: store,
	}
}

// GetBooking retrieves a booking by its reference code
func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	reference := c.Params("reference")
	if reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Booking reference is required",
		})
	}

	booking, err := h.store.GetBookingByReference(c.UserContext(), reference)
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Booking not found",
		})
	}
	if err != nil {
		return err
	}

	return c.JSON(booking)
}

// ListBookings retrieves the most recent bookings of a phone number,
// optionally restricted to one company
func (h *BookingHandler) ListBookings(c *fiber.Ctx) error {
	phone := c.Query("phone")
	if phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Phone number is required",
		})
	}

	var companyID uint
	if raw := c.Query("company"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid company id",
			})
		}
		companyID = uint(id)
	}

	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > maxBookingsPerQuery {
		limit = maxBookingsPerQuery
	}

	bookings, err := h.store.ListBookingsByPhone(c.UserContext(), phone, companyID, limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"bookings": bookings,
		"count":    len(bookings),
	})
}
