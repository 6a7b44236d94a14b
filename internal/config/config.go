package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all runtime settings, read once at startup.
type Config struct {
	Port                string
	JWTSecret           []byte
	RedisAddr           string
	AllowedOrigins      []string
	SnapshotTTL         time.Duration
	SessionEndedChannel string
}

const (
	defaultPort        = "8090"
	defaultSecret      = "your-secret-key" // dev only
	defaultRedisAddr   = "localhost:6379"
	defaultSnapshotTTL = 24 * time.Hour
	defaultChannel     = "session_ended"
)

func Load() (*Config, error) {
	cfg := &Config{
		Port:                getenv("PORT", defaultPort),
		JWTSecret:           []byte(getenv("JWT_SECRET", defaultSecret)),
		RedisAddr:           getenv("REDIS_ADDR", defaultRedisAddr),
		SnapshotTTL:         defaultSnapshotTTL,
		SessionEndedChannel: getenv("SESSION_ENDED_CHANNEL", defaultChannel),
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	if raw := os.Getenv("SNAPSHOT_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parse SNAPSHOT_TTL: %w", err)
		}
		cfg.SnapshotTTL = ttl
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
