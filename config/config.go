package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	HTTP    ServerConfig
	GRPC    ServerConfig
	MySQL   MySQLConfig
	Log     LogConfig
	Lava    LavaConfig
	Webhook WebhookConfig
}

type AppConfig struct {
	ServiceName string
}

type ServerConfig struct {
	Host string
	Port string
}

type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	HealthInterval  time.Duration
}

type LogConfig struct {
	Level string
}

type LavaConfig struct {
	ShopID        string
	SecretKey     string
	WebhookSecret string
	BaseURL       string
	HTTPTimeout   time.Duration
}

type WebhookConfig struct {
	Path      string
	BodyLimit string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	shopID := os.Getenv("LAVA_SHOP_ID")
	if shopID == "" {
		return nil, errors.New("LAVA_SHOP_ID environment variable is required")
	}
	secretKey := os.Getenv("LAVA_SECRET_KEY")
	if secretKey == "" {
		return nil, errors.New("LAVA_SECRET_KEY environment variable is required")
	}

	return &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "lava-service"),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		GRPC: ServerConfig{
			Host: getEnv("GRPC_HOST", "0.0.0.0"),
			Port: getEnv("GRPC_PORT", "9090"),
		},
		MySQL: MySQLConfig{
			DSN:             getEnv("MYSQL_DSN", ""),
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getMinutesEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
			HealthInterval:  getSecondsEnv("MYSQL_HEALTH_INTERVAL_SECONDS", 15*time.Second),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Lava: LavaConfig{
			ShopID:        shopID,
			SecretKey:     secretKey,
			WebhookSecret: getEnv("LAVA_WEBHOOK_SECRET", ""),
			BaseURL:       getEnv("LAVA_BASE_URL", "https://api.lava.ru/business"),
			HTTPTimeout:   getSecondsEnv("LAVA_HTTP_TIMEOUT_SECONDS", 10*time.Second),
		},
		Webhook: WebhookConfig{
			Path:      getEnv("LAVA_WEBHOOK_PATH", "/webhooks/lava"),
			BodyLimit: getEnv("LAVA_WEBHOOK_BODY_LIMIT", "64K"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getMinutesEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
