package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Source        SourceConfig
	Report        ReportConfig
	Output        OutputConfig
	Schedule      ScheduleConfig
	Observability ObservabilityConfig
}

type SourceConfig struct {
	URL           string
	File          string
	Retries       int
	Backoff       time.Duration
	Timeout       time.Duration
	RatePerSecond float64
}

type ReportConfig struct {
	Year         int
	SeriesATitle string
	SeriesBTitle string
}

type OutputConfig struct {
	Path    string
	CSVPath string
}

type ScheduleConfig struct {
	Expr string // cron expression; empty runs once
}

type ObservabilityConfig struct {
	MetricsEnabled bool
	MetricsPort    int
	LogLevel       string
	LogFormat      string
}

// Year bounds accepted for REPORT_YEAR
const (
	MinYear = 1900
	MaxYear = 9999
)

var (
	ErrNoSource    = errors.New("SHEET_URL or SHEET_FILE is required")
	ErrInvalidYear = errors.New("REPORT_YEAR out of range")
)

// Load reads configuration from environment variables, after loading a .env
// file from the working directory when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Source: SourceConfig{
			URL:           getEnv("SHEET_URL", ""),
			File:          getEnv("SHEET_FILE", ""),
			Retries:       getEnvAsInt("FETCH_RETRIES", 3),
			Backoff:       getEnvAsDuration("FETCH_BACKOFF", 500*time.Millisecond),
			Timeout:       getEnvAsDuration("FETCH_TIMEOUT", 30*time.Second),
			RatePerSecond: getEnvAsFloat("FETCH_RATE_PER_SECOND", 0),
		},
		Report: ReportConfig{
			Year:         getEnvAsInt("REPORT_YEAR", time.Now().Year()),
			SeriesATitle: getEnv("SERIES_A_TITLE", ""),
			SeriesBTitle: getEnv("SERIES_B_TITLE", ""),
		},
		Output: OutputConfig{
			Path:    getEnv("OUTPUT_PATH", "public/data.json"),
			CSVPath: getEnv("CSV_OUTPUT_PATH", ""),
		},
		Schedule: ScheduleConfig{
			Expr: getEnv("REFRESH_SCHEDULE", ""),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
			MetricsPort:    getEnvAsInt("METRICS_PORT", 9090),
			LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
			LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", "text")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields Load cannot default
func (c *Config) Validate() error {
	if c.Source.URL == "" && c.Source.File == "" {
		return ErrNoSource
	}
	if c.Report.Year < MinYear || c.Report.Year > MaxYear {
		return fmt.Errorf("%w: %d", ErrInvalidYear, c.Report.Year)
	}
	if c.Source.Retries < 0 {
		return fmt.Errorf("FETCH_RETRIES must not be negative, got %d", c.Source.Retries)
	}
	return nil
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

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
