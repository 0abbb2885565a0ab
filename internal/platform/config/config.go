package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config carries everything the watcher and worker processes need. Values come
// from the environment so main stays lean; defaults target the local
// docker-compose stack.
type Config struct {
	OpsAddr  string
	WatchDir string

	Postgres PostgresConfig
	Redis    RedisConfig
	Minio    MinioConfig
	Kafka    KafkaConfig
}

type PostgresConfig struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

// URL renders a pgx-compatible connection string.
func (c PostgresConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", c.User, c.Password, c.Host, c.Port, c.Database)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	Group   string
}

// FromEnv builds the full configuration from environment variables.
func FromEnv() Config {
	return Config{
		OpsAddr:  envOr("OPS_ADDR", ":8080"),
		WatchDir: envOr("WATCH_DIR", "/app/in"),
		Postgres: PostgresConfig{
			Host:     envOr("POSTGRES_HOST", "postgres"),
			Port:     envOr("POSTGRES_PORT", "5432"),
			Database: envOr("POSTGRES_DB", "salamat"),
			User:     envOr("POSTGRES_USER", "salamat"),
			Password: envOr("POSTGRES_PASSWORD", "salamat"),
		},
		Redis: RedisConfig{
			Host:         envOr("REDIS_HOST", "redis"),
			Port:         envOr("REDIS_PORT", "6379"),
			Password:     envOr("REDIS_PASSWORD", "redis_password"),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Minio: MinioConfig{
			Endpoint:  envOr("MINIO_HOST", "minio") + ":" + envOr("MINIO_PORT", "9000"),
			AccessKey: envOr("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: envOr("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    envOr("MINIO_BUCKET_NAME", "my-bucket"),
			UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(envOr("KAFKA_BROKERS", "kafka:9092"), ","),
			Topic:   envOr("KAFKA_TOPIC", "valxml.process"),
			Group:   envOr("KAFKA_GROUP", "valxml-workers"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
