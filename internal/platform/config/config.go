// Package config builds process configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
}

// Postgres captures database configuration. An empty DSN means the process
// runs on in-memory stores (dev mode).
type Postgres struct {
	DSN string
}

// Redis captures redis client configuration. An empty URL means redis is not
// configured and memory-backed fallbacks are used.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka captures audit publishing configuration. Empty brokers disable the
// kafka audit pipeline; audit entries still persist locally.
type Kafka struct {
	Brokers    []string
	AuditTopic string
}

// Rating captures rating table configuration. TablePath overrides the
// embedded default tables when set.
type Rating struct {
	TablePath string
}

// FormToken captures one-time form token lifetime.
type FormToken struct {
	TTL time.Duration
}

// Config is the process-wide configuration root.
type Config struct {
	Server    Server
	Postgres  Postgres
	Redis     Redis
	Kafka     Kafka
	Rating    Rating
	FormToken FormToken
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:          envOr("COVIRA_ADDR", ":8080"),
			JWTSigningKey: envOr("COVIRA_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:     envOr("COVIRA_JWT_ISSUER", "covira"),
		},
		Postgres: Postgres{
			DSN: os.Getenv("COVIRA_POSTGRES_DSN"),
		},
		Redis: Redis{
			URL:          os.Getenv("COVIRA_REDIS_URL"),
			PoolSize:     envIntOr("COVIRA_REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("COVIRA_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDurationOr("COVIRA_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("COVIRA_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("COVIRA_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers:    splitNonEmpty(os.Getenv("COVIRA_KAFKA_BROKERS")),
			AuditTopic: envOr("COVIRA_KAFKA_AUDIT_TOPIC", "covira.audit"),
		},
		Rating: Rating{
			TablePath: os.Getenv("COVIRA_RATING_TABLE_PATH"),
		},
		FormToken: FormToken{
			TTL: envDurationOr("COVIRA_FORM_TOKEN_TTL", 15*time.Minute),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
