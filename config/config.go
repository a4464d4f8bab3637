package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"catalog-backend/logger"

	"github.com/joho/godotenv"
)

func LoadEnv() error {
	// A missing .env is normal outside local development; variables come from the environment.
	if err := godotenv.Load(); err != nil {
		return nil
	}
	return nil
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv() error {
	var missing []string

	if os.Getenv("JWT_SECRET") == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if os.Getenv("DATABASE_URL") == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	log := logger.Named("config")
	if GetEnv("ASSET_STORE", "firebase") == "firebase" {
		if AssetBucket() == "" {
			log.Warn("ASSET_BUCKET not set - image uploads will fail")
		}
		if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
			log.Warn("GOOGLE_APPLICATION_CREDENTIALS not set - using default credentials")
		}
	}
	if os.Getenv("FRONTEND_URL") == "" {
		log.Warn("FRONTEND_URL not set - CORS may not work correctly")
	}

	return nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvInt returns the integer value of key, or defaultValue when unset or malformed.
func GetEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// GetEnvDuration parses values like "90s" or "2h".
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

// AssetBucket prefers ASSET_BUCKET and falls back to FIREBASE_STORAGE_BUCKET.
func AssetBucket() string {
	if b := os.Getenv("ASSET_BUCKET"); b != "" {
		return b
	}
	return os.Getenv("FIREBASE_STORAGE_BUCKET")
}

// AssetBaseURL is the locator prefix for stored images.
func AssetBaseURL() string {
	if base := os.Getenv("ASSET_BASE_URL"); base != "" {
		return base
	}
	return "https://storage.googleapis.com/" + AssetBucket()
}
