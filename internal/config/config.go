package config

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	defaultServiceName  = "formguard"
	defaultServicePort  = 8094
	defaultVersion      = "0.1.0"
	defaultLoggingLevel = "info"
	defaultDBHost       = "localhost"
	defaultDBPort       = 5432
	defaultDBName       = "formguard"
	defaultDBUser       = "postgres"
	defaultDBSSLMode    = "disable"

	defaultBufferSize          = 1000
	defaultTimeWindowMS        = 250
	defaultPositionTolerancePX = 20

	defaultMaxEventsPerMinute = 600
	defaultWindowSeconds      = 60
)

// defaultCORSOrigins allows any origin; the primary caller is a browser
// extension whose origin is not known ahead of time.
var defaultCORSOrigins = []string{"*"}

// Config holds the application configuration.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Detection DetectionConfig `yaml:"detection"`
	Database  DatabaseConfig  `yaml:"database"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"FORMGUARD_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"      yaml:"debug"`
}

// DetectionConfig holds click correlation tuning.
type DetectionConfig struct {
	// BufferSize is the capacity of the pointer-click ring buffer.
	BufferSize int `env:"FORMGUARD_BUFFER_SIZE" yaml:"buffer_size"`
	// TimeWindowMS is the maximum pointer-to-page click gap in milliseconds
	// for the two to count as the same physical action.
	TimeWindowMS int `env:"FORMGUARD_TIME_WINDOW_MS" yaml:"time_window_ms"`
	// PositionTolerancePX is reserved for position-proximity matching.
	// The current correlation rule matches on timing only.
	PositionTolerancePX int `yaml:"position_tolerance_px"`
}

// Window returns the correlation window as a duration.
func (d *DetectionConfig) Window() time.Duration {
	return time.Duration(d.TimeWindowMS) * time.Millisecond
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host     string `env:"POSTGRES_FORMGUARD_HOST"     yaml:"host"`
	Port     int    `env:"POSTGRES_FORMGUARD_PORT"     yaml:"port"`
	User     string `env:"POSTGRES_FORMGUARD_USER"     yaml:"user"`
	Password string `env:"POSTGRES_FORMGUARD_PASSWORD" yaml:"password"`
	Database string `env:"POSTGRES_FORMGUARD_DB"       yaml:"database"`
	SSLMode  string `env:"POSTGRES_FORMGUARD_SSLMODE"  yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// RateLimitConfig holds rate limiting configuration for ingestion endpoints.
type RateLimitConfig struct {
	MaxEventsPerMinute int `yaml:"max_events_per_minute"`
	WindowSeconds      int `yaml:"window_seconds"`
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	AllowedOrigins []string `env:"FORMGUARD_CORS_ORIGINS" yaml:"allowed_origins"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `env:"LOG_LEVEL" yaml:"level"`
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDetectionDefaults(&cfg.Detection)
	setDatabaseDefaults(&cfg.Database)
	setRateLimitDefaults(&cfg.RateLimit)
	setCORSDefaults(&cfg.CORS)
	setLoggingDefaults(&cfg.Logging)
}

func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
}

func setDetectionDefaults(det *DetectionConfig) {
	if det.BufferSize == 0 {
		det.BufferSize = defaultBufferSize
	}
	if det.TimeWindowMS == 0 {
		det.TimeWindowMS = defaultTimeWindowMS
	}
	if det.PositionTolerancePX == 0 {
		det.PositionTolerancePX = defaultPositionTolerancePX
	}
}

func setDatabaseDefaults(db *DatabaseConfig) {
	if db.Host == "" {
		db.Host = defaultDBHost
	}
	if db.Port == 0 {
		db.Port = defaultDBPort
	}
	if db.User == "" {
		db.User = defaultDBUser
	}
	if db.Database == "" {
		db.Database = defaultDBName
	}
	if db.SSLMode == "" {
		db.SSLMode = defaultDBSSLMode
	}
}

func setRateLimitDefaults(rl *RateLimitConfig) {
	if rl.MaxEventsPerMinute == 0 {
		rl.MaxEventsPerMinute = defaultMaxEventsPerMinute
	}
	if rl.WindowSeconds == 0 {
		rl.WindowSeconds = defaultWindowSeconds
	}
}

func setCORSDefaults(c *CORSConfig) {
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = defaultCORSOrigins
	}
}

func setLoggingDefaults(log *LoggingConfig) {
	if log.Level == "" {
		log.Level = defaultLoggingLevel
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if err := validatePositive("detection.buffer_size", c.Detection.BufferSize); err != nil {
		return err
	}
	if err := validatePositive("detection.time_window_ms", c.Detection.TimeWindowMS); err != nil {
		return err
	}
	return nil
}
