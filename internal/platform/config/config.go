package config

import (
	"os"
	"strconv"
	"time"
)

// StorageKey is the well-known key the request collection is persisted under.
// Older deployments of the portal wrote the same collection to browser-local
// storage under this name; the KV substrate keeps it for compatibility.
const StorageKey = "verificationRequests"

// Server captures process-level configuration.
type Server struct {
	Addr          string
	AdminToken    string
	JWTSigningKey string
	StaffTokenTTL time.Duration

	// DatabaseURL and RedisURL select the KV substrate backing the request
	// store. Postgres wins when both are set; with neither, requests live in
	// process memory.
	DatabaseURL string
	RedisURL    string

	// KafkaBrokers enables lifecycle event publishing when non-empty.
	KafkaBrokers string
	EventTopic   string

	// Institution appears on the letterhead of generated artifacts.
	Institution string

	// SubmitRateLimit caps submissions per client per minute.
	SubmitRateLimit int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("EDUVERIFY_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	adminToken := os.Getenv("ADMIN_TOKEN")
	if adminToken == "" {
		// Use a default for development - should be overridden in production
		adminToken = "dev-admin-token-change-in-production"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	staffTTL := 8 * time.Hour
	if raw := os.Getenv("STAFF_TOKEN_TTL"); raw != "" {
		if duration, err := time.ParseDuration(raw); err == nil {
			staffTTL = duration
		}
	}

	submitLimit := 30
	if raw := os.Getenv("SUBMIT_RATE_LIMIT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			submitLimit = n
		}
	}

	topic := os.Getenv("EVENT_TOPIC")
	if topic == "" {
		topic = "eduverify.lifecycle"
	}

	return Server{
		Addr:            addr,
		AdminToken:      adminToken,
		JWTSigningKey:   jwtSigningKey,
		StaffTokenTTL:   staffTTL,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		KafkaBrokers:    os.Getenv("KAFKA_BROKERS"),
		EventTopic:      topic,
		Institution:     os.Getenv("INSTITUTION_NAME"),
		SubmitRateLimit: submitLimit,
	}
}
