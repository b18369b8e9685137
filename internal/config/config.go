// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the ledger service needs from its environment.
type Config struct {
	// HTTP
	ListenAddr string

	// Database (PostgreSQL)
	DBUser     string
	DBPassword string
	DBName     string
	DBHost     string
	DBPort     string

	// Storage backend: "postgres" or "memory" (local runs only)
	StoreBackend string

	// Audit trail backend: "kafka", "rabbitmq" or "nop"
	AuditBackend string

	// Kafka
	KafkaBroker string
	KafkaTopic  string

	// RabbitMQ
	RabbitUser     string
	RabbitPassword string
	RabbitHost     string
	RabbitPort     string
	RabbitQueue    string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment, with a .env file as an
// optional overlay for local development.
func Load() (*Config, error) {
	// Missing .env is fine; production injects real env vars.
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),

		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),

		StoreBackend: getEnv("STORE_BACKEND", "postgres"),
		AuditBackend: getEnv("AUDIT_BACKEND", "nop"),

		KafkaBroker: getEnv("KAFKA_BROKER", ""),
		KafkaTopic:  getEnv("KAFKA_TOPIC", "ledger.audit"),

		RabbitUser:     getEnv("RABBITMQ_USER", "guest"),
		RabbitPassword: getEnv("RABBITMQ_PASSWORD", "guest"),
		RabbitHost:     getEnv("RABBITMQ_HOST", "localhost"),
		RabbitPort:     getEnv("RABBITMQ_PORT", "5672"),
		RabbitQueue:    getEnv("RABBITMQ_QUEUE", "ledger.audit"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case "postgres":
		if c.DBUser == "" || c.DBName == "" {
			return fmt.Errorf("DB_USER and DB_NAME are required for the postgres backend")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.AuditBackend {
	case "kafka":
		if c.KafkaBroker == "" {
			return fmt.Errorf("KAFKA_BROKER is required for the kafka audit backend")
		}
	case "rabbitmq", "nop":
	default:
		return fmt.Errorf("unknown AUDIT_BACKEND %q", c.AuditBackend)
	}
	return nil
}

// GetDBURL formats the config into a PostgreSQL connection string.
func (c *Config) GetDBURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// GetRabbitMQURL formats the config into a RabbitMQ connection string.
func (c *Config) GetRabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.RabbitUser, c.RabbitPassword, c.RabbitHost, c.RabbitPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
