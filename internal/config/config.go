// Package config collects the runtime settings for the blog API from
// environment variables, with defaults suitable for local development.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every knob the server reads at startup.
type Config struct {
	Addr string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	DBMaxOpenConns        int
	DBMaxIdleConns        int
	DBConnMaxIdleMinutes  int
	DBConnMaxLifetimeMins int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionTTL time.Duration

	AdminName     string
	AdminEmail    string
	AdminUsername string
	AdminPassword string
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Addr: getEnvOrDefault("ADDR", ":8000"),

		DBHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DBPort:     getEnvOrDefault("DB_PORT", "5432"),
		DBUser:     getEnvOrDefault("DB_USER", "postgres"),
		DBPassword: getEnvOrDefault("DB_PASSWORD", "password"),
		DBName:     getEnvOrDefault("DB_NAME", "spiral"),
		DBSSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),

		DBMaxOpenConns:        getIntEnvOrDefault("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:        getIntEnvOrDefault("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxIdleMinutes:  getIntEnvOrDefault("DB_CONN_MAX_IDLE_MINUTES", 5),
		DBConnMaxLifetimeMins: getIntEnvOrDefault("DB_CONN_MAX_LIFETIME_MINUTES", 30),

		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnvOrDefault("REDIS_DB", 0),

		SessionTTL: time.Duration(getIntEnvOrDefault("SESSION_TTL_HOURS", 7*24)) * time.Hour,

		AdminName:     getEnvOrDefault("ADMIN_NAME", "Administrator"),
		AdminEmail:    getEnvOrDefault("ADMIN_EMAIL", "admin@example.com"),
		AdminUsername: getEnvOrDefault("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnvOrDefault("ADMIN_PASSWORD", "admin123"),
	}
}

// getEnvOrDefault returns the value of an environment variable or a default value
func getEnvOrDefault(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvOrDefault(key string, defaultValue int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		log.Printf("Invalid %s=%q, using default %d", key, raw, defaultValue)
		return defaultValue
	}

	return value
}
