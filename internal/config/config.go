package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppPort string

	// Import client
	ImportAPIURL string
	PollInterval time.Duration
	MaxWait      time.Duration // 0 disables the overall deadline
	HTTPTimeout  time.Duration

	// Stub server
	UploadMaxSize int
	JobRowDelay   time.Duration
}

func Load() (*Config, error) {
	// Load .env file if exists
	// Try to load from current dir first, then parent dirs
	_ = godotenv.Load()
	_ = godotenv.Load("../../.env") // For when running from cmd/import or cmd/importd

	cfg := &Config{
		AppName: getEnv("APP_NAME", "Finance Import"),
		AppEnv:  getEnv("APP_ENV", "development"),
		AppPort: getEnv("APP_PORT", "8080"),

		ImportAPIURL: getEnv("IMPORT_API_URL", "http://localhost:8080"),
		PollInterval: getEnvAsDuration("IMPORT_POLL_INTERVAL", 2*time.Second),
		MaxWait:      getEnvAsDuration("IMPORT_MAX_WAIT", 0),
		HTTPTimeout:  getEnvAsDuration("IMPORT_HTTP_TIMEOUT", 30*time.Second),

		UploadMaxSize: getEnvAsInt("UPLOAD_MAX_SIZE", 104857600), // 100MB
		JobRowDelay:   getEnvAsDuration("JOB_ROW_DELAY", 50*time.Millisecond),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
