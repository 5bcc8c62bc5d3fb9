package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server   ServerConfig
	Worker   WorkerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	MinIO    MinIOConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port            int           `envconfig:"API_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"10s"`
	Env             string        `envconfig:"APP_ENV" default:"development"`
}

// IsProduction reports whether error details should be hidden from clients.
func (c ServerConfig) IsProduction() bool {
	return c.Env == "production"
}

type WorkerConfig struct {
	ShutdownTimeout time.Duration `envconfig:"WORKER_SHUTDOWN_TIMEOUT" default:"30s"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"movieverse"`
	Password string `envconfig:"POSTGRES_PASSWORD" default:"movieverse"`
	DBName   string `envconfig:"POSTGRES_DB" default:"movieverse"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// CacheConfig selects and tunes the response cache backend.
type CacheConfig struct {
	// Backend is "memory" or "redis".
	Backend     string        `envconfig:"CACHE_BACKEND" default:"memory"`
	TTL         time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	CheckPeriod time.Duration `envconfig:"CACHE_CHECK_PERIOD" default:"60s"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type RabbitMQConfig struct {
	// Enabled gates the asynchronous creation path. When false the API
	// never connects to the broker and all writes are synchronous.
	Enabled  bool   `envconfig:"QUEUE_ENABLED" default:"false"`
	Host     string `envconfig:"RABBITMQ_HOST" default:"localhost"`
	Port     int    `envconfig:"RABBITMQ_PORT" default:"5672"`
	User     string `envconfig:"RABBITMQ_USER" default:"movieverse"`
	Password string `envconfig:"RABBITMQ_PASSWORD" default:"movieverse"`
	VHost    string `envconfig:"RABBITMQ_VHOST" default:"/"`
}

func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%d%s",
		c.User, c.Password, c.Host, c.Port, c.VHost,
	)
}

type MinIOConfig struct {
	Enabled   bool   `envconfig:"MINIO_ENABLED" default:"false"`
	Endpoint  string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	Bucket    string `envconfig:"MINIO_BUCKET" default:"posters"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type AuthConfig struct {
	AdminToken  string `envconfig:"AUTH_ADMIN_TOKEN" default:""`
	ReaderToken string `envconfig:"AUTH_READER_TOKEN" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
