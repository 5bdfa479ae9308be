// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds all server-related settings
type ServerConfig struct {
	Port           int
	Host           string
	MetricsEnabled bool
}

// DatabaseConfig holds MongoDB connection settings
type DatabaseConfig struct {
	URI  string
	Name string
}

// ScorerConfig holds the positivity-scoring service settings
type ScorerConfig struct {
	URL     string
	Timeout time.Duration
}

// Config holds the complete application configuration
type Config struct {
	Server         *ServerConfig
	Database       *DatabaseConfig
	Scorer         *ScorerConfig
	JWTSecret      string
	AllowedOrigins []string
	Debug          bool
}

// DefaultConfig provides default server settings
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Port:           8080,
		Host:           "0.0.0.0",
		MetricsEnabled: true,
	}
}

// LoadConfig loads configuration from environment variables and applies
// defaults. A missing .env file is fine; the process environment still wins.
func LoadConfig() (*Config, error) {
	envLocations := []string{
		".env",
		"../../.env", // project root when running from cmd/server
	}
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			break
		}
	}

	serverConfig := DefaultConfig()

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			serverConfig.Port = port
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		serverConfig.Host = host
	}

	if metricsEnabled := os.Getenv("METRICS_ENABLED"); metricsEnabled != "" {
		serverConfig.MetricsEnabled = metricsEnabled == "true"
	}

	dbConfig := &DatabaseConfig{
		URI:  os.Getenv("MONGODB_URI"),
		Name: getEnvOrDefault("DB_NAME", "feedback_hub"),
	}
	if dbConfig.URI == "" {
		return nil, fmt.Errorf("MONGODB_URI environment variable is required")
	}

	scorerConfig := &ScorerConfig{
		URL:     os.Getenv("SCORER_URL"),
		Timeout: 10 * time.Second,
	}
	if scorerConfig.URL == "" {
		return nil, fmt.Errorf("SCORER_URL environment variable is required")
	}
	if timeoutStr := os.Getenv("SCORER_TIMEOUT"); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil {
			scorerConfig.Timeout = timeout
		}
	}

	config := &Config{
		Server:         serverConfig,
		Database:       dbConfig,
		Scorer:         scorerConfig,
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AllowedOrigins: []string{"*"},
		Debug:          false,
	}
	if config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = strings.Split(origins, ",")
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		config.Debug = true
	}

	return config, nil
}

// Helper function to get environment variable with default fallback
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
