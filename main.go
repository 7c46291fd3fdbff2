package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Ananth-NQI/transitlink-ussd/database"
	"github.com/Ananth-NQI/transitlink-ussd/internal/config"
	"github.com/Ananth-NQI/transitlink-ussd/internal/handlers"
	"github.com/Ananth-NQI/transitlink-ussd/internal/jobs"
	"github.com/Ananth-NQI/transitlink-ussd/internal/middleware"
	"github.com/Ananth-NQI/transitlink-ussd/internal/routes"
	"github.com/Ananth-NQI/transitlink-ussd/internal/services"
	"github.com/Ananth-NQI/transitlink-ussd/internal/storage"
	"github.com/Ananth-NQI/transitlink-ussd/internal/ussd"
)

const version = "1.0.0"

// storeWithPing is a full store that can report its health
type storeWithPing interface {
	storage.Store
	handlers.Pinger
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize storage
	var store storeWithPing
	storageType := "PostgreSQL Database"
	if cfg.UseMemoryStore {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
		storageType = "In-Memory (Testing)"
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		db, err := database.Connect(cfg.Database)
		if err != nil {
			log.Fatal(err)
		}
		log.Println("🔄 Running database migrations...")
		if err := database.Migrate(db); err != nil {
			log.Fatal(err)
		}
		store = storage.NewDatabaseStore(db)
		log.Println("✅ Using PostgreSQL database storage")
	}

	if cfg.SeedFile != "" {
		seed, err := storage.LoadSeed(cfg.SeedFile)
		if err != nil {
			log.Fatal(err)
		}
		if _, err := storage.ApplySeed(context.Background(), store, seed); err != nil {
			log.Fatal(err)
		}
	}

	reference := storage.NewCachedReferenceStore(store, cfg.ReferenceCacheTTL)
	reference.Start()

	// Initialize SMS
	var notifier services.Notifier = services.LogNotifier{}
	if cfg.Twilio.Enabled() {
		twilioService, err := services.NewTwilioService(cfg.Twilio)
		if err != nil {
			log.Fatal("Failed to initialize Twilio service:", err)
		}
		notifier = twilioService
		log.Println("✅ Twilio service initialized")
	} else {
		log.Println("⚠️  Twilio credentials not found - SMS will only be logged")
	}

	tasks := jobs.NewTaskQueue(cfg.Tasks.Workers, cfg.Tasks.QueueSize, cfg.Tasks.Timeout)
	tasks.Start()

	ussdService := services.NewUSSDService(store, reference, store, notifier, tasks, ussd.NewEngine(nil))

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName:      "TransitLink USSD v" + version,
		ErrorHandler: routes.ErrorHandler,
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		Records:   store,
		Reference: reference,
		USSD:      ussdService,
		Health:    handlers.NewHealthHandler(version, storageType, cfg.Twilio.Enabled(), store),
		Limiter:   middleware.NewPhoneLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 0),
	})

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		log.Println("⏹️  Shutting down server...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚀 TransitLink USSD starting on port %s", cfg.Port)
	log.Printf("📊 Storage: %s", storageType)
	log.Printf("🌍 Environment: %s (%s)", cfg.Environment, deployment(cfg))
	log.Println("========================================")

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("❌ Server error: %v", err)
	}

	log.Println("⏹️  Draining task queue...")
	tasks.Stop()
	reference.Stop()
	log.Println("👋 Shutdown complete")
}

func deployment(cfg *config.Config) string {
	if cfg.IsProduction() {
		return "Cloud Run + Cloud SQL"
	}
	return "Local"
}
