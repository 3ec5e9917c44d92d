package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig возвращается, если конфигурация не прошла проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Catalog   CatalogConfig   `toml:"catalog"`
	Notifier  NotifierConfig  `toml:"notifier"`
	Redis     RedisConfig     `toml:"redis"`
	Engine    EngineConfig    `toml:"engine"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

// ServerConfig параметры HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig параметры подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, sslMode)
}

// LogsConfig параметры логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig параметры Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// CatalogConfig клиент каталога услуг и сотрудников
type CatalogConfig struct {
	URL      string `toml:"url"`
	Timeout  int    `toml:"timeout"`   // секунды
	CacheTTL int    `toml:"cache_ttl"` // секунды, 0 = без кэша
}

// NotifierConfig клиент сервиса уведомлений
type NotifierConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// RedisConfig кэш ответов каталога
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Address  string `toml:"address"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// EngineConfig параметры движка расписания
type EngineConfig struct {
	// Timezone часовой пояс, в котором бизнесы задают рабочие часы (IANA, например Europe/Moscow)
	Timezone string `toml:"timezone"`
}

// Location загружает часовой пояс движка
func (e EngineConfig) Location() (*time.Location, error) {
	if e.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(e.Timezone)
}

// RateLimitConfig ограничение частоты создания бронирований
type RateLimitConfig struct {
	Enabled bool    `toml:"enabled"`
	RPS     float64 `toml:"rps"`
	Burst   int     `toml:"burst"`
}

// Load читает .env (если есть), подставляет переменные окружения ${VAR} в TOML и проверяет результат
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	return Parse(os.ExpandEnv(string(raw)))
}

// Parse разбирает TOML, заполняет значения по умолчанию и проверяет конфигурацию
func Parse(data string) (*Config, error) {
	cfg := defaults()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "reservation-service",
		},
		Catalog: CatalogConfig{
			Timeout: 5,
		},
		Notifier: NotifierConfig{
			Timeout: 3,
		},
		RateLimit: RateLimitConfig{
			RPS:   10,
			Burst: 20,
		},
	}
}

// Validate проверяет обязательные поля и диапазоны
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port out of range", ErrInvalidConfig)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("%w: database.port out of range", ErrInvalidConfig)
	}
	if c.Catalog.URL == "" {
		return fmt.Errorf("%w: catalog.url is required", ErrInvalidConfig)
	}
	if c.Notifier.Enabled && c.Notifier.URL == "" {
		return fmt.Errorf("%w: notifier.url is required when notifier is enabled", ErrInvalidConfig)
	}
	if c.Redis.Enabled && c.Redis.Address == "" {
		return fmt.Errorf("%w: redis.address is required when redis is enabled", ErrInvalidConfig)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: rate_limit.rps and rate_limit.burst must be positive", ErrInvalidConfig)
	}
	if _, err := c.Engine.Location(); err != nil {
		return fmt.Errorf("%w: engine.timezone: %v", ErrInvalidConfig, err)
	}
	return nil
}
