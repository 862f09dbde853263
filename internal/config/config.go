package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Supported backends for the listing/message store and the image store.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMinio    = "minio"
)

// Config holds every setting the service reads at startup.
type Config struct {
	AppPort        string `mapstructure:"APP_PORT"`
	BodyLimitBytes int    `mapstructure:"BODY_LIMIT_BYTES"`

	DatabaseDriver string `mapstructure:"DATABASE_DRIVER"`
	DatabaseDSN    string `mapstructure:"DATABASE_DSN"`

	StorageDriver    string `mapstructure:"STORAGE_DRIVER"`
	MinioEndpoint    string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey   string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey   string `mapstructure:"MINIO_SECRET_KEY"`
	MinioUseSSL      bool   `mapstructure:"MINIO_USE_SSL"`
	StorageBucket    string `mapstructure:"STORAGE_BUCKET"`
	StoragePublicURL string `mapstructure:"STORAGE_PUBLIC_URL"`
	VerifyUploads    bool   `mapstructure:"VERIFY_UPLOADS"`

	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`

	LogLevel    string `mapstructure:"LOG_LEVEL"`
	LogEncoding string `mapstructure:"LOG_ENCODING"`
}

var keys = []string{
	"APP_PORT", "BODY_LIMIT_BYTES",
	"DATABASE_DRIVER", "DATABASE_DSN",
	"STORAGE_DRIVER", "MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_USE_SSL",
	"STORAGE_BUCKET", "STORAGE_PUBLIC_URL", "VERIFY_UPLOADS",
	"RABBITMQ_URL",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "SMTP_FROM",
	"LOG_LEVEL", "LOG_ENCODING",
}

// Load reads config.env (if present) and the environment into a Config.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("BODY_LIMIT_BYTES", 16*1024*1024)
	v.SetDefault("DATABASE_DRIVER", DriverMemory)
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("STORAGE_DRIVER", DriverMemory)
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "")
	v.SetDefault("MINIO_SECRET_KEY", "")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("STORAGE_BUCKET", "listing-images")
	v.SetDefault("STORAGE_PUBLIC_URL", "")
	v.SetDefault("VERIFY_UPLOADS", false)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_FROM", "no-reply@marketplace.local")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_ENCODING", "json")

	v.AutomaticEnv()
	// Unmarshal only sees env values for keys viper already knows about.
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DatabaseDriver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for driver %q", c.DatabaseDriver)
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	switch c.StorageDriver {
	case DriverMemory:
	case DriverMinio:
		if c.MinioEndpoint == "" || c.StorageBucket == "" {
			return fmt.Errorf("MINIO_ENDPOINT and STORAGE_BUCKET are required for driver %q", c.StorageDriver)
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.BodyLimitBytes <= 0 {
		return fmt.Errorf("BODY_LIMIT_BYTES must be positive, got %d", c.BodyLimitBytes)
	}
	return nil
}

// SMTPEnabled reports whether seller notifications are mailed rather than logged.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}
