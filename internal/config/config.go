// Package config assembles the service configuration once at startup from
// an optional .env file, the environment and command-line flags.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config is built once in main and passed into constructors
type Config struct {
	Port        string
	Environment string
	SeedFile    string

	UseMemoryStore bool
	Database       Database
	Twilio         Twilio

	ReferenceCacheTTL time.Duration
	Tasks             Tasks
	RateLimit         RateLimit
}

// Database holds PostgreSQL connection settings
type Database struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     string
	// InstanceConnectionName selects the Cloud SQL unix socket when set
	InstanceConnectionName string
}

// Twilio holds SMS credentials; SMS is disabled when any field is empty
type Twilio struct {
	AccountSID string
	AuthToken  string
	From       string
}

// Enabled reports whether all credentials are present
func (t Twilio) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.From != ""
}

// Tasks configures the post-response task queue
type Tasks struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

// RateLimit configures per-subscriber callback throttling; RPS 0 disables it
type RateLimit struct {
	RPS   float64
	Burst int
}

// IsProduction reports whether the service runs against Cloud SQL
func (c *Config) IsProduction() bool {
	return c.Database.InstanceConnectionName != ""
}

// Load parses args (without the program name), loads the env file and reads
// the environment. Flags win over the environment.
func Load(args []string) (*Config, error) {
	flags := pflag.NewFlagSet("transitlink", pflag.ContinueOnError)
	envFile := flags.String("env-file", ".env", "dotenv file to load before reading the environment")
	port := flags.StringP("port", "p", "", "HTTP listen port (overrides PORT)")
	memory := flags.Bool("memory-store", false, "use the in-memory store instead of PostgreSQL")
	seed := flags.String("seed", "", "YAML file with companies and routes to seed into an empty store")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if err := godotenv.Load(*envFile); err != nil {
		log.Printf("⚠️  No %s file found - using environment variables", *envFile)
	}

	cfg := &Config{
		Port:           envOr("PORT", "8080"),
		Environment:    envOr("ENVIRONMENT", "development"),
		SeedFile:       os.Getenv("SEED_FILE"),
		UseMemoryStore: os.Getenv("USE_MEMORY_STORE") == "true",
		Database: Database{
			User:                   envOr("DB_USER", "postgres"),
			Password:               os.Getenv("DB_PASS"),
			Name:                   envOr("DB_NAME", "transitlink"),
			Host:                   envOr("DB_HOST", "localhost"),
			Port:                   envOr("DB_PORT", "5432"),
			InstanceConnectionName: os.Getenv("INSTANCE_CONNECTION_NAME"),
		},
		Twilio: Twilio{
			AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
			From:       os.Getenv("TWILIO_SMS_FROM"),
		},
	}

	var err error
	if cfg.ReferenceCacheTTL, err = envDuration("REFERENCE_CACHE_TTL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.Tasks.Workers, err = envInt("TASK_WORKERS", 4); err != nil {
		return nil, err
	}
	if cfg.Tasks.QueueSize, err = envInt("TASK_QUEUE_SIZE", 256); err != nil {
		return nil, err
	}
	if cfg.Tasks.Timeout, err = envDuration("TASK_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.RateLimit.RPS, err = envFloat("RATE_LIMIT_RPS", 2); err != nil {
		return nil, err
	}
	if cfg.RateLimit.Burst, err = envInt("RATE_LIMIT_BURST", 10); err != nil {
		return nil, err
	}

	if flags.Changed("port") {
		cfg.Port = *port
	}
	if flags.Changed("memory-store") {
		cfg.UseMemoryStore = *memory
	}
	if flags.Changed("seed") {
		cfg.SeedFile = *seed
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
