package config

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	defaultServiceName  = "funnel-tracker"
	defaultServicePort  = 8094
	defaultVersion      = "0.1.0"
	defaultLoggingLevel = "info"
	defaultLoggingFmt   = "json"
	defaultDBHost       = "localhost"
	defaultDBPort       = 5432
	defaultDBName       = "funnel_tracker"
	defaultDBUser       = "postgres"
	defaultDBSSLMode    = "disable"

	defaultMaxTrackPerMinute = 60
	defaultWindowSeconds     = 60

	defaultHeartbeatS      = 15
	defaultSessionIdleMin  = 30
	defaultLookupTimeoutS  = 3
	defaultIPLookupURL     = "https://api.ipify.org?format=json"
	defaultCountryLookup   = "https://ipapi.co"
	defaultSessionCookie   = "fsid"
	defaultLandingFallback = "/landing"
)

// Config holds the application configuration.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Database  DatabaseConfig  `yaml:"database"`
	Geo       GeoConfig       `yaml:"geo"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name            string        `yaml:"name"`
	Version         string        `yaml:"version"`
	Port            int           `env:"FUNNEL_TRACKER_PORT"   yaml:"port"`
	Debug           bool          `env:"APP_DEBUG"             yaml:"debug"`
	AdminJWTSecret  string        `env:"FUNNEL_ADMIN_SECRET"   yaml:"admin_jwt_secret"`
	SessionCookie   string        `yaml:"session_cookie"`
	FlushInterval   time.Duration `yaml:"flush_interval"`
	SessionIdleTTL  time.Duration `yaml:"session_idle_ttl"`
	LandingFallback string        `yaml:"landing_fallback"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host     string `env:"POSTGRES_FUNNEL_HOST"     yaml:"host"`
	Port     int    `env:"POSTGRES_FUNNEL_PORT"     yaml:"port"`
	User     string `env:"POSTGRES_FUNNEL_USER"     yaml:"user"`
	Password string `env:"POSTGRES_FUNNEL_PASSWORD" yaml:"password"`
	Database string `env:"POSTGRES_FUNNEL_DB"       yaml:"database"`
	SSLMode  string `env:"POSTGRES_FUNNEL_SSLMODE"  yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// GeoConfig holds the external IP/country lookup configuration.
type GeoConfig struct {
	IPLookupURL      string        `yaml:"ip_lookup_url"`
	CountryLookupURL string        `yaml:"country_lookup_url"`
	Timeout          time.Duration `yaml:"timeout"`
}

// RateLimitConfig holds rate limiting for the tracking endpoints.
type RateLimitConfig struct {
	MaxTrackPerMinute int `yaml:"max_track_per_minute"`
	WindowSeconds     int `yaml:"window_seconds"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setGeoDefaults(&cfg.Geo)
	setRateLimitDefaults(&cfg.RateLimit)
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
	if svc.SessionCookie == "" {
		svc.SessionCookie = defaultSessionCookie
	}
	if svc.FlushInterval == 0 {
		svc.FlushInterval = defaultHeartbeatS * time.Second
	}
	if svc.SessionIdleTTL == 0 {
		svc.SessionIdleTTL = defaultSessionIdleMin * time.Minute
	}
	if svc.LandingFallback == "" {
		svc.LandingFallback = defaultLandingFallback
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

func setGeoDefaults(geo *GeoConfig) {
	if geo.IPLookupURL == "" {
		geo.IPLookupURL = defaultIPLookupURL
	}
	if geo.CountryLookupURL == "" {
		geo.CountryLookupURL = defaultCountryLookup
	}
	if geo.Timeout == 0 {
		geo.Timeout = defaultLookupTimeoutS * time.Second
	}
}

func setRateLimitDefaults(rl *RateLimitConfig) {
	if rl.MaxTrackPerMinute == 0 {
		rl.MaxTrackPerMinute = defaultMaxTrackPerMinute
	}
	if rl.WindowSeconds == 0 {
		rl.WindowSeconds = defaultWindowSeconds
	}
}

func setLoggingDefaults(log *LoggingConfig) {
	if log.Level == "" {
		log.Level = defaultLoggingLevel
	}
	if log.Format == "" {
		log.Format = defaultLoggingFmt
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if c.Service.AdminJWTSecret == "" {
		return &ValidationError{
			Field:   "service.admin_jwt_secret",
			Message: "is required",
		}
	}
	if err := validateLogLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}
