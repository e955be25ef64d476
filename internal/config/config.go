// Package config reads runtime configuration from the environment,
// optionally seeded from a .env file. Values with sane defaults use the
// Get helpers; secrets go through MustGetEnv and abort startup when
// absent.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadEnv seeds the process environment from a .env file when one
// exists. A missing file is normal outside local development.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// GetEnv returns the named variable, or defaultVal when unset or empty.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv is GetEnv for integer values; unparseable values fall back
// to the default.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// MustGetEnv returns a required variable or aborts startup. Secrets
// (encryption key, JWT signing key) must never fall back to a default,
// so a missing value is fatal rather than silently insecure.
func MustGetEnv(key string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		log.Fatalf("required environment variable %s is not set", key)
	}
	return val
}

// IsProduction reports whether ENV names the production environment.
// Gates the demo-token fallback among other things.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}
