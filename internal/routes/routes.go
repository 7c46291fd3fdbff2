package routes

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ananth-NQI/transitlink-ussd/internal/handlers"
	"github.com/Ananth-NQI/transitlink-ussd/internal/middleware"
	"github.com/Ananth-NQI/transitlink-ussd/internal/storage"
)

const msgInternalError = "Internal server error"

// Dependencies are the collaborators the routes are built from
type Dependencies struct {
	Records   storage.RecordStore
	Reference storage.ReferenceStore
	USSD      handlers.CallbackProcessor
	Health    *handlers.HealthHandler
	Limiter   *middleware.PhoneLimiter
}

// SetupRoutes configures all routes
func SetupRoutes(app *fiber.App, deps Dependencies) {
	app.Get("/", deps.Health.Info)
	app.Get("/health", deps.Health.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// ========== USSD CALLBACK ==========
	ussdHandler := handlers.NewUSSDHandler(deps.USSD)
	rateLimit := middleware.RateLimitUSSD(deps.Limiter)
	app.Post("/ussd", rateLimit, ussdHandler.HandleCallback)
	app.Post("/ussd/callback", rateLimit, ussdHandler.HandleCallback)

	// ========== API ROUTES ==========
	api := app.Group("/api")

	referenceHandler := handlers.NewReferenceHandler(deps.Reference)
	api.Get("/companies", referenceHandler.ListCompanies)
	api.Get("/companies/:id/routes", referenceHandler.ListRoutes)

	bookingHandler := handlers.NewBookingHandler(deps.Records)
	api.Get("/bookings", bookingHandler.ListBookings)
	api.Get("/bookings/:reference", bookingHandler.GetBooking)

	supportHandler := handlers.NewSupportHandler(deps.Records)
	api.Get("/reports/:reference", supportHandler.GetReport)
}

// ErrorHandler renders handler errors as JSON. Only *fiber.Error messages
// reach the client; anything else is logged and reported generically.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var e *fiber.Error
	if errors.As(err, &e) {
		return c.Status(e.Code).JSON(fiber.Map{
			"error": e.Message,
		})
	}

	log.Printf("❌ %s %s failed: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": msgInternalError,
	})
}
