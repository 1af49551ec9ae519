package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	SessionSecret  string // Required: HMAC secret for session tokens (min 32 bytes)
	BootstrapToken string // Optional: token required to perform bootstrap

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./newsroom.db)
	PepperFile           string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	SessionTTL           time.Duration // Session lifetime (default: 24h)
	RegistrationEnabled  bool          // Allow self-service signup (default: false)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	// godotenv doesn't override already-set variables, so the real
	// environment always wins over the .env file.
	_ = godotenv.Load(".env")

	return Config{
		SessionSecret:        os.Getenv("NEWSROOM_SESSION_SECRET"),
		BootstrapToken:       os.Getenv("BOOTSTRAP_TOKEN"),
		DatabaseFile:         getEnvOrDefault("NEWSROOM_DATABASE_FILE", "newsroom.db"),
		PepperFile:           getEnvOrDefault("NEWSROOM_PEPPER_FILE", "pepper"),
		SessionTTL:           getEnvDurationOrDefault("NEWSROOM_SESSION_TTL", 24*time.Hour),
		RegistrationEnabled:  getEnvBoolOrDefault("NEWSROOM_REGISTRATION_ENABLED", false),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Accept durations like "1h", "30m", "90s".
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Accept bare integers as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
