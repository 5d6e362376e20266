// Package config loads bot configuration from environment variables.
//
// A .env file in the working directory is honored when present (development
// convenience); real deployments set the environment directly. All helpers
// return defaults rather than exiting, so main stays in charge of fatal
// decisions.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the full application configuration.
type Config struct {
	// Matrix transport credentials.
	MatrixHomeserver  string
	MatrixUserID      string
	MatrixAccessToken string
	MatrixRooms       []string

	// Generation backend credentials. Anthropic is preferred when both are
	// set, mirroring how the reading prompts were tuned.
	AnthropicAPIKey string
	OpenAIAPIKey    string
	OracleModel     string
	OracleTimeout   time.Duration

	// Session storage. RedisURL takes precedence; SQLitePath is the local
	// durable alternative; with neither set sessions live in process memory.
	RedisURL   string
	SQLitePath string
	SessionTTL time.Duration

	// Admission control.
	RateLimit       int
	RateLimitWindow time.Duration

	// Entity matching.
	MatchThreshold int

	// Users who never pay for readings, comma-separated identities.
	PaymentAllowList []string

	Environment string
	LogLevel    string
	LogFormat   string
}

// Load reads configuration from the environment. It returns an error only
// when a required variable is missing; everything else falls back to a
// sensible default.
func Load() (*Config, error) {
	// Ignore the error: a missing .env file is the normal production case.
	_ = godotenv.Load()

	homeserver, err := requiredString("MATRIX_HOMESERVER")
	if err != nil {
		return nil, err
	}
	userID, err := requiredString("MATRIX_USER_ID")
	if err != nil {
		return nil, err
	}
	token, err := requiredString("MATRIX_ACCESS_TOKEN")
	if err != nil {
		return nil, err
	}

	return &Config{
		MatrixHomeserver:  homeserver,
		MatrixUserID:      userID,
		MatrixAccessToken: token,
		MatrixRooms:       stringSliceOr("MATRIX_ROOMS", nil),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OracleModel:     stringOr("ORACLE_MODEL", ""),
		OracleTimeout:   durationOr("ORACLE_TIMEOUT", 30*time.Second),

		RedisURL:   os.Getenv("REDIS_URL"),
		SQLitePath: os.Getenv("SQLITE_PATH"),
		SessionTTL: durationOr("SESSION_TTL", 24*time.Hour),

		RateLimit:       intOr("RATE_LIMIT", 5),
		RateLimitWindow: durationOr("RATE_LIMIT_WINDOW", time.Minute),

		MatchThreshold: intOr("MATCH_THRESHOLD", 75),

		PaymentAllowList: stringSliceOr("PAYMENT_ALLOWLIST", nil),

		Environment: stringOr("ENVIRONMENT", "development"),
		LogLevel:    stringOr("LOG_LEVEL", "info"),
		LogFormat:   stringOr("LOG_FORMAT", "text"),
	}, nil
}

// IsAllowListed reports whether the user identity gets free readings.
func (c *Config) IsAllowListed(userID string) bool {
	for _, id := range c.PaymentAllowList {
		if id == userID {
			return true
		}
	}
	return false
}

func requiredString(name string) (string, error) {
	v := os.Getenv(name)
	if v == "" {
		return "", fmt.Errorf("required environment variable %q is not set", name)
	}
	return v, nil
}

func stringOr(name, defaultValue string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return defaultValue
}

func intOr(name string, defaultValue int) int {
	v := os.Getenv(name)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}

func durationOr(name string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}
	return d
}

func stringSliceOr(name string, defaultValue []string) []string {
	v := os.Getenv(name)
	if v == "" {
		return defaultValue
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			result = append(result, t)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
