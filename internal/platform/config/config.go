package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration. FromEnv keeps main lean.
type Server struct {
	Addr          string
	LogLevel      slog.Level
	JWTSigningKey string
	Postgres      PostgresConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
}

// PostgresConfig selects the persistent store. An empty URL keeps the
// in-memory store.
type PostgresConfig struct {
	URL string
}

// RedisConfig configures the optional distributed per-transaction lock.
// An empty URL keeps the in-process sharded lock.
type RedisConfig struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the audit fan-out sink. Empty brokers disable it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("DEEDFLOW_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	level := slog.LevelInfo
	if os.Getenv("DEEDFLOW_LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	topic := os.Getenv("DEEDFLOW_KAFKA_TOPIC")
	if topic == "" {
		topic = "deedflow.audit"
	}
	var brokers []string
	if raw := os.Getenv("DEEDFLOW_KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return Server{
		Addr:          addr,
		LogLevel:      level,
		JWTSigningKey: jwtSigningKey,
		Postgres: PostgresConfig{
			URL: os.Getenv("DEEDFLOW_DB_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("DEEDFLOW_REDIS_URL"),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   topic,
		},
	}
}
