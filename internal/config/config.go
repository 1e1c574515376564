package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/m04kA/SMC-VenueService/pkg/retry"
)

// EnvPrefix префикс переменных окружения, переопределяющих файл конфигурации
const EnvPrefix = "VENUE"

// Config конфигурация сервиса
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Tracing      TracingConfig      `toml:"tracing"`
	Redis        RedisConfig        `toml:"redis"`
	Availability AvailabilityConfig `toml:"availability"`
	Retry        RetryConfig        `toml:"retry"`
	RateLimit    RateLimitConfig    `toml:"rate_limit" envconfig:"RATE_LIMIT"`
	CORS         CORSConfig         `toml:"cors"`

	// SeedSpaces площадки, создаваемые при старте в пустой базе
	SeedSpaces []SpaceSeedConfig `toml:"seed_spaces" ignored:"true"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" envconfig:"HTTP_PORT"`
	ReadTimeout     int `toml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    int `toml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     int `toml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout int `toml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

type DatabaseConfig struct {
	// Driver "postgres" или "sqlite"
	Driver           string `toml:"driver"`
	Host             string `toml:"host"`
	Port             int    `toml:"port"`
	User             string `toml:"user"`
	Password         string `toml:"password"`
	DBName           string `toml:"dbname"`
	SSLMode          string `toml:"sslmode"`
	SQLitePath       string `toml:"sqlite_path" envconfig:"SQLITE_PATH"`
	MaxOpenConns     int    `toml:"max_open_conns" envconfig:"MAX_OPEN_CONNS"`
	MaxIdleConns     int    `toml:"max_idle_conns" envconfig:"MAX_IDLE_CONNS"`
	ConnMaxLifetime  int    `toml:"conn_max_lifetime" envconfig:"CONN_MAX_LIFETIME"`
	AutoCreateSchema bool   `toml:"auto_create_schema" envconfig:"AUTO_CREATE_SCHEMA"`
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name" envconfig:"SERVICE_NAME"`
}

type TracingConfig struct {
	Enabled      bool    `toml:"enabled"`
	OTLPEndpoint string  `toml:"otlp_endpoint" envconfig:"OTLP_ENDPOINT"`
	SampleRatio  float64 `toml:"sample_ratio" envconfig:"SAMPLE_RATIO"`
}

type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds" envconfig:"TTL_SECONDS"`
}

type AvailabilityConfig struct {
	// Timezone часовой пояс, в котором интерпретируются даты и время площадок
	Timezone string `toml:"timezone"`
	// PointCheckProjection включает проекцию многодневных интервалов в validate-interval
	PointCheckProjection bool `toml:"point_check_projection" envconfig:"POINT_CHECK_PROJECTION"`
	MaxSeriesDays        int  `toml:"max_series_days" envconfig:"MAX_SERIES_DAYS"`
}

type RetryConfig struct {
	MaxAttempts      int `toml:"max_attempts" envconfig:"MAX_ATTEMPTS"`
	InitialBackoffMs int `toml:"initial_backoff_ms" envconfig:"INITIAL_BACKOFF_MS"`
	MaxBackoffMs     int `toml:"max_backoff_ms" envconfig:"MAX_BACKOFF_MS"`
}

type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND"`
	Burst             int     `toml:"burst"`
	MaxClients        int     `toml:"max_clients" envconfig:"MAX_CLIENTS"`
	IdleTTLSeconds    int     `toml:"idle_ttl_seconds" envconfig:"IDLE_TTL_SECONDS"`
}

type SpaceSeedConfig struct {
	Name     string  `toml:"name"`
	Location *string `toml:"location"`
	Capacity int     `toml:"capacity"`
}

type CORSConfig struct {
	Enabled        bool     `toml:"enabled"`
	AllowedOrigins []string `toml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	MaxAgeSeconds  int      `toml:"max_age_seconds" envconfig:"MAX_AGE_SECONDS"`
}

// Load читает конфигурацию из TOML файла, затем применяет .env и переменные окружения VENUE_*.
// Отсутствующий файл не считается ошибкой
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	// .env опционален и не перекрывает уже заданные переменные
	_ = godotenv.Load()

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("config: process env: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 10)
	setDefault(&c.Server.WriteTimeout, 10)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 15)

	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "venue.db"
	}
	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "venue-service"
	}

	if c.Tracing.OTLPEndpoint == "" {
		c.Tracing.OTLPEndpoint = "localhost:4317"
	}
	if c.Tracing.SampleRatio == 0 {
		c.Tracing.SampleRatio = 1
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	setDefault(&c.Redis.TTLSeconds, 300)

	if c.Availability.Timezone == "" {
		c.Availability.Timezone = "UTC"
	}
	setDefault(&c.Availability.MaxSeriesDays, 31)

	setDefault(&c.Retry.MaxAttempts, retry.DefaultMaxAttempts)
	setDefault(&c.Retry.InitialBackoffMs, int(retry.DefaultInitialBackoff/time.Millisecond))
	setDefault(&c.Retry.MaxBackoffMs, int(retry.DefaultMaxBackoff/time.Millisecond))

	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = 20
	}
	setDefault(&c.RateLimit.Burst, 40)
	setDefault(&c.RateLimit.MaxClients, 10000)
	setDefault(&c.RateLimit.IdleTTLSeconds, 600)

	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	setDefault(&c.CORS.MaxAgeSeconds, 300)
}

func setDefault(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("config: unsupported database.driver %q", c.Database.Driver)
	}

	if c.Database.Driver == "postgres" && (c.Database.Host == "" || c.Database.DBName == "") {
		return errors.New("config: database.host and database.dbname are required for postgres")
	}

	if _, err := c.Availability.Location(); err != nil {
		return err
	}

	if c.Availability.MaxSeriesDays < 1 {
		return fmt.Errorf("config: availability.max_series_days must be positive, got %d", c.Availability.MaxSeriesDays)
	}

	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("config: retry.max_attempts must be positive, got %d", c.Retry.MaxAttempts)
	}

	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("config: tracing.sample_ratio must be in [0, 1], got %v", c.Tracing.SampleRatio)
	}

	if c.RateLimit.MaxClients < 1 {
		return fmt.Errorf("config: rate_limit.max_clients must be positive, got %d", c.RateLimit.MaxClients)
	}

	for i, seed := range c.SeedSpaces {
		if seed.Name == "" {
			return fmt.Errorf("config: seed_spaces[%d].name is required", i)
		}
		if seed.Capacity < 1 {
			return fmt.Errorf("config: seed_spaces[%d].capacity must be positive, got %d", i, seed.Capacity)
		}
	}

	return nil
}

// DSN строка подключения для выбранного драйвера
func (d DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", d.SQLitePath)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Location загружает часовой пояс площадок
func (a AvailabilityConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid availability.timezone %q: %w", a.Timezone, err)
	}
	return loc, nil
}

func (r RetryConfig) InitialBackoff() time.Duration {
	return time.Duration(r.InitialBackoffMs) * time.Millisecond
}

func (r RetryConfig) MaxBackoff() time.Duration {
	return time.Duration(r.MaxBackoffMs) * time.Millisecond
}

func (r RedisConfig) TTL() time.Duration {
	return time.Duration(r.TTLSeconds) * time.Second
}

func (r RateLimitConfig) IdleTTL() time.Duration {
	return time.Duration(r.IdleTTLSeconds) * time.Second
}
