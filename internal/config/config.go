package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション設定を表す
type Config struct {
	App     AppConfig
	Server  ServerConfig
	Metrics MetricsConfig
	CORS    CORSConfig
}

// AppConfig はアプリケーション全体の設定
type AppConfig struct {
	Env string
}

// ServerConfig はサーバー設定
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// MetricsConfig はメトリクス設定
type MetricsConfig struct {
	Enabled       bool
	User          string
	Password      string
	StatsInterval time.Duration
}

// CORSConfig はCORS設定
type CORSConfig struct {
	AllowOrigins []string
}

// Load は環境変数から設定を読み込む
func Load() *Config {
	return &Config{
		App: AppConfig{
			Env: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Metrics: MetricsConfig{
			Enabled:       getBoolEnv("METRICS_ENABLED", true),
			User:          getEnv("METRICS_USER", ""),
			Password:      getEnv("METRICS_PASSWORD", ""),
			StatsInterval: getDurationEnv("STATS_INTERVAL", 30*time.Second),
		},
		CORS: CORSConfig{
			AllowOrigins: getListEnv("CORS_ALLOW_ORIGINS", []string{"*"}),
		},
	}
}

// Addr はサーバーの待ち受けアドレスを返す
func (c *ServerConfig) Addr() string {
	return ":" + c.Port
}

// IsProduction は本番環境かどうかを返す
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// AuthEnabled はメトリクスの Basic 認証が有効かどうかを返す
func (c *MetricsConfig) AuthEnabled() bool {
	return c.User != "" && c.Password != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

// getListEnv はカンマ区切りの値を読み込む
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
