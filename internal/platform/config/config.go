package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config captures process-level configuration. Values come from the
// environment so main stays lean.
type Config struct {
	Addr            string
	DatabaseURL     string
	Redis           RedisConfig
	Kafka           KafkaConfig
	CredentialKey   []byte // 32-byte key for the reversible credential copy
	ShutdownTimeout time.Duration
}

// RedisConfig holds connection settings for the notification dispatcher.
type RedisConfig struct {
	URL          string
	Stream       string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds settings for the audit outbox relay.
type KafkaConfig struct {
	Brokers      []string
	AuditTopic   string
	PollInterval time.Duration
}

// FromEnv builds a Config from environment variables.
//
// CANVASS_CREDENTIAL_KEY must be 64 hex characters (32 bytes). A development
// fallback is derived when unset; production deployments must override it.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:            envOr("CANVASS_ADDR", ":8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		ShutdownTimeout: envDuration("CANVASS_SHUTDOWN_TIMEOUT", 10*time.Second),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			Stream:       envOr("CANVASS_NOTIFY_STREAM", "canvass:notifications"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:      splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			AuditTopic:   envOr("CANVASS_AUDIT_TOPIC", "canvass.audit"),
			PollInterval: envDuration("CANVASS_OUTBOX_POLL_INTERVAL", 2*time.Second),
		},
	}

	keyHex := os.Getenv("CANVASS_CREDENTIAL_KEY")
	if keyHex == "" {
		// Deterministic development key; never acceptable in production.
		keyHex = "6465762d63726564656e7469616c2d6b65792d63616e766173732d3030303030"
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return Config{}, fmt.Errorf("CANVASS_CREDENTIAL_KEY is not valid hex: %w", err)
	}
	if len(key) != 32 {
		return Config{}, fmt.Errorf("CANVASS_CREDENTIAL_KEY must decode to 32 bytes, got %d", len(key))
	}
	cfg.CredentialKey = key

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if part := s[start:i]; part != "" {
				out = append(out, part)
			}
			start = i + 1
		}
	}
	return out
}
