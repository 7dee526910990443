package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port           string
	BackendBaseURL string
	RedisURL       string
	Environment    string
	AllowedOrigins []string

	EventTopic  string
	SnapshotTTL time.Duration

	ReadingSeconds     int
	ReviewGapSeconds   int
	FinalReviewSeconds int
}

// Load reads configuration from the environment. Missing keys fall back to
// development defaults; a .env file, when present, is loaded by the caller
// before this runs.
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		BackendBaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:8081/api/v1"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		EventTopic:  getEnv("EVENT_TOPIC", "session-events"),
		SnapshotTTL: getEnvDuration("SNAPSHOT_TTL", 72*time.Hour),

		ReadingSeconds:     getEnvInt("READING_SECONDS", 3600),
		ReviewGapSeconds:   getEnvInt("REVIEW_GAP_SECONDS", 120),
		FinalReviewSeconds: getEnvInt("FINAL_REVIEW_SECONDS", 120),
	}
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
