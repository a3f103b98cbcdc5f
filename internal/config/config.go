package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Everything is read from the environment. In a deployment the DB connection,
// queue URLs and Redis address are set on the pod; locally the defaults point
// at docker-compose service names and LocalStack.

type Config struct {
	IsLocalDev         bool          `mapstructure:"IS_LOCAL_DEV"`
	DBDriver           string        `mapstructure:"DB_DRIVER"`
	DBHost             string        `mapstructure:"DB_HOST"`
	DBPort             string        `mapstructure:"DB_PORT"`
	DBUser             string        `mapstructure:"DB_USER"`
	DBPassword         string        `mapstructure:"DB_PASSWORD"`
	DBName             string        `mapstructure:"DB_NAME"`
	SQLitePath         string        `mapstructure:"SQLITE_PATH"`
	ServerPort         string        `mapstructure:"SERVER_PORT"`
	AWSRegion          string        `mapstructure:"AWS_REGION"`
	AWSEndpoint        string        `mapstructure:"AWS_ENDPOINT"`
	NotifySQSQueueURL  string        `mapstructure:"NOTIFY_SQS_QUEUE_URL"`
	WebhookSQSQueueURL string        `mapstructure:"WEBHOOK_SQS_QUEUE_URL"`
	EventsEnabled      bool          `mapstructure:"EVENTS_ENABLED"`
	RedisAddr          string        `mapstructure:"REDIS_ADDR"`
	RedisPassword      string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB            int           `mapstructure:"REDIS_DB"`
	ActiveSessionTTL   time.Duration `mapstructure:"ACTIVE_SESSION_TTL"`
	ParentEmail        string        `mapstructure:"PARENT_EMAIL"`
	SenderEmail        string        `mapstructure:"SENDER_EMAIL"`
	WebhookURL         string        `mapstructure:"WEBHOOK_URL"`
	OTLPEndpoint       string        `mapstructure:"OTLP_ENDPOINT"`
	Timezone           string        `mapstructure:"TIMEZONE"`
	WorkerConcurrency  int           `mapstructure:"WORKER_CONCURRENCY"`
	MetricsPort        string        `mapstructure:"METRICS_PORT"`
}

// LoadConfig reads configuration from environment variables, falling back to defaults.
func LoadConfig() (config Config, err error) {
	v := viper.New()

	v.SetDefault("IS_LOCAL_DEV", false)
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "db")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "worktracker_db")
	v.SetDefault("SQLITE_PATH", "worktracker.db")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ENDPOINT", "http://localstack:4566")
	v.SetDefault("NOTIFY_SQS_QUEUE_URL", "http://localstack:4566/000000000000/notify-queue")
	v.SetDefault("WEBHOOK_SQS_QUEUE_URL", "http://localstack:4566/000000000000/webhook-queue")
	v.SetDefault("EVENTS_ENABLED", true)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ACTIVE_SESSION_TTL", "12h")
	v.SetDefault("PARENT_EMAIL", "parent@household.local")
	v.SetDefault("SENDER_EMAIL", "worktracker@household.local")
	v.SetDefault("WEBHOOK_URL", "http://localhost:8081/")
	v.SetDefault("OTLP_ENDPOINT", "jaeger:4317")
	// Empty means the server's local zone.
	v.SetDefault("TIMEZONE", "")
	v.SetDefault("WORKER_CONCURRENCY", 10)
	// Workers have no API; they serve /metrics on this port instead.
	v.SetDefault("METRICS_PORT", "9090")

	// Read in environment variables that match the keys.
	v.AutomaticEnv()

	if err = v.Unmarshal(&config); err != nil {
		return config, err
	}

	switch config.DBDriver {
	case "postgres", "sqlite":
	default:
		return config, fmt.Errorf("unsupported DB_DRIVER %q", config.DBDriver)
	}
	return config, nil
}

// Location resolves Timezone, defaulting to the process's local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// PostgresDSN builds the connection URL for the pgx driver.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}
