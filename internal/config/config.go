// Package config loads service configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// UpstreamConfig names the two backend services the gateway fronts. The
// split mirrors the deployed topology: the admin service owns orders,
// coupons, products and auth; the storefront service owns the home CMS
// and the order detail aggregate.
type UpstreamConfig struct {
	AdminURL       string
	StorefrontURL  string
	TimeoutSeconds int
}

type RedisConfig struct {
	Addr              string
	SectionTTLSeconds int
}

type KafkaConfig struct {
	Brokers       []string
	ActivityTopic string
}

type AuthConfig struct {
	// APIKeys guards the gateway's /api routes. An empty list disables
	// the check (local development).
	APIKeys []string
}

type TelemetryConfig struct {
	OTLPEndpoint   string
	ServiceVersion string
}

// Gateway is the configuration of the dashboard gateway service.
type Gateway struct {
	Server    ServerConfig
	Upstream  UpstreamConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Auth      AuthConfig
	Telemetry TelemetryConfig
	LogLevel  string
}

// Audit is the configuration of the audit service.
type Audit struct {
	Server      ServerConfig
	PostgresURL string
	Kafka       KafkaConfig
	Telemetry   TelemetryConfig
	LogLevel    string
}

// LoadGateway reads the gateway configuration.
func LoadGateway() (*Gateway, error) {
	loadDotEnv()

	cfg := &Gateway{
		Server: ServerConfig{
			Host:            getEnv("HOST", "0.0.0.0"),
			Port:            getEnv("PORT", "8090"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 10),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 10),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Upstream: UpstreamConfig{
			AdminURL:       getEnv("ADMIN_API_URL", "http://localhost:8081"),
			StorefrontURL:  getEnv("STOREFRONT_API_URL", "http://localhost:8080"),
			TimeoutSeconds: getEnvAsInt("UPSTREAM_TIMEOUT", 10),
		},
		Redis: RedisConfig{
			Addr:              getEnv("REDIS_ADDR", ""),
			SectionTTLSeconds: getEnvAsInt("SECTION_CACHE_TTL", 300),
		},
		Kafka: KafkaConfig{
			Brokers:       getEnvAsSlice("KAFKA_BROKERS", nil),
			ActivityTopic: getEnv("ACTIVITY_TOPIC", "admin.activity"),
		},
		Auth: AuthConfig{
			APIKeys: getEnvAsSlice("API_KEYS", nil),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceVersion: getEnv("SERVICE_VERSION", "0.1.0"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Gateway) validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Upstream.AdminURL == "" {
		return fmt.Errorf("ADMIN_API_URL is required")
	}
	if c.Upstream.StorefrontURL == "" {
		return fmt.Errorf("STOREFRONT_API_URL is required")
	}
	return validateLogLevel(c.LogLevel)
}

// LoadAudit reads the audit service configuration.
func LoadAudit() (*Audit, error) {
	loadDotEnv()

	cfg := &Audit{
		Server: ServerConfig{
			Host:            getEnv("HOST", "0.0.0.0"),
			Port:            getEnv("PORT", "8091"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 10),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 10),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		PostgresURL: getEnv("POSTGRES_URL", ""),
		Kafka: KafkaConfig{
			Brokers:       getEnvAsSlice("KAFKA_BROKERS", nil),
			ActivityTopic: getEnv("ACTIVITY_TOPIC", "admin.activity"),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceVersion: getEnv("SERVICE_VERSION", "0.1.0"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Audit) validate() error {
	if c.PostgresURL == "" {
		return fmt.Errorf("POSTGRES_URL is required")
	}
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	return validateLogLevel(c.LogLevel)
}

func validateLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("invalid log level: %s", level)
}

func loadDotEnv() {
	// The .env file is optional; a missing file is not an error.
	_ = godotenv.Load()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
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
