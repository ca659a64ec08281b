package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port       string
	Env        string
	CORSOrigin string

	// Document database. An empty URL keeps the server on the in-memory backend.
	DatabaseURL  string
	DatabaseName string

	// Backend upgrade polling
	StorageInitialDelay  time.Duration
	StorageRetryInterval time.Duration
	StorageRetryWindow   time.Duration

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// AI
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	AITimeout     time.Duration
	AIRateLimit   float64

	// Audit log
	AuditDBDriver string
	AuditDBDSN    string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port:       getEnv("PORT", "5000"),
		Env:        getEnv("ENV", "development"),
		CORSOrigin: getEnv("CORS_ORIGIN", "*"),

		// Document database
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		DatabaseName: getEnv("DATABASE_NAME", "finsight"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		// AI
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),

		// Audit log
		AuditDBDriver: getEnv("AUDIT_DB_DRIVER", "sqlite"),
		AuditDBDSN:    getEnv("AUDIT_DB_DSN", "finsight_audit.db"),
	}

	config.JWTExpirationDur = getDuration("JWT_EXPIRES_IN", 15*time.Minute)
	config.StorageInitialDelay = getDuration("STORAGE_INITIAL_DELAY", time.Second)
	config.StorageRetryInterval = getDuration("STORAGE_RETRY_INTERVAL", 5*time.Second)
	config.StorageRetryWindow = getDuration("STORAGE_RETRY_WINDOW", 30*time.Second)
	config.AITimeout = getDuration("AI_TIMEOUT", 20*time.Second)

	rateStr := getEnv("AI_RATE_LIMIT", "2")
	rate, err := strconv.ParseFloat(rateStr, 64)
	if err != nil || rate <= 0 {
		log.Printf("Warning: invalid AI_RATE_LIMIT value '%s', falling back to 2\n", rateStr)
		rate = 2
	}
	config.AIRateLimit = rate

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a duration variable, falling back to the default on bad input.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}
