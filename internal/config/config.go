// Package config centralises configuration parsing for the attendance binaries.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures runtime configuration values for the attendance engine and its collaborators.
type Config struct {
	Timezone              string
	FeedMaxItems          int
	FeedPageSize          int
	BirthdayLookaheadDays int
	CheckInTokenSecret    string
	CheckInTokenTTL       time.Duration
	KafkaBrokers          []string
	ConsumerTopics        []string
	MetricsAddress        string
	ReportInterval        time.Duration
}

// LoadEnvFile overlays variables from a dotenv file onto the environment.
// Variables already set in the environment win.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads environment variables into Config, applying sensible defaults for local dev.
func Load() Config {
	cfg := Config{
		Timezone:              getEnv("TIMEZONE", "Local"),
		FeedMaxItems:          getIntEnv("FEED_MAX_ITEMS", 20),
		FeedPageSize:          getIntEnv("FEED_PAGE_SIZE", 10),
		BirthdayLookaheadDays: getIntEnv("BIRTHDAY_LOOKAHEAD_DAYS", 7),
		CheckInTokenSecret:    getEnv("CHECKIN_TOKEN_SECRET", ""),
		CheckInTokenTTL:       getDurationEnv("CHECKIN_TOKEN_TTL", 5*time.Minute),
		MetricsAddress:        getEnv("METRICS_ADDRESS", ":9102"),
		ReportInterval:        getDurationEnv("REPORT_INTERVAL", time.Minute),
	}

	cfg.KafkaBrokers = splitAndTrim(getEnv("KAFKA_BROKERS", "kafka:9092"))
	cfg.ConsumerTopics = splitAndTrim(getEnv("CONSUMER_TOPICS", "attendance_events"))
	return cfg
}

// Location resolves Timezone. "Local" and "UTC" map to the time package locations.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
