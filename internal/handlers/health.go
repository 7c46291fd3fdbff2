package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger checks a backing dependency
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	Version string
	Storage string
	SMS     bool
	store   Pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version, storage string, sms bool, store Pinger) *HealthHandler {
	return &HealthHandler{
		Version: version,
		Storage: storage,
		SMS:     sms,
		store:   store,
	}
}

// Info describes the service and its endpoints
func (h *HealthHandler) Info(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "TransitLink USSD",
		"version": h.Version,
		"storage": h.Storage,
		"sms":     h.SMS,
		"endpoints": fiber.Map{
			"ussd":    "/ussd",
			"health":  "/health",
			"metrics": "/metrics",
			"api":     "/api",
		},
	})
}

// Check returns the health status of the service
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "healthy"
	statusCode := fiber.StatusOK

	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			status = "unhealthy"
			statusCode = fiber.StatusServiceUnavailable
		}
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"version": h.Version,
		"services": fiber.Map{
			"storage": status == "healthy",
			"sms":     h.SMS,
		},
	})
}
