// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Extraction    ExtractionConfig
	Log           LogConfig
	Observability ObservabilityConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	StaticDir   string
	MaxUploadMB int
}

type ExtractionConfig struct {
	LineTolerance float64
	PageWorkers   int
	WordGapFactor float64
}

type LogConfig struct {
	Level  string
	Format string
}

type ObservabilityConfig struct {
	MetricsEnabled bool
}

// Load reads configuration from environment variables, after merging any
// .env file in the working directory. Variables already set win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "localhost"),
			Port:        getEnvAsInt("SERVER_PORT", 8080),
			StaticDir:   getEnv("STATIC_DIR", ""),
			MaxUploadMB: getEnvAsInt("MAX_UPLOAD_MB", 32),
		},
		Extraction: ExtractionConfig{
			LineTolerance: getEnvAsFloat("LINE_TOLERANCE", 2.0),
			PageWorkers:   getEnvAsInt("PAGE_WORKERS", 0),
			WordGapFactor: getEnvAsFloat("WORD_GAP_FACTOR", 0.3),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
