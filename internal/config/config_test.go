package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/minglemoody/funnel-tracker/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "service:\n  name: funnel-tracker\n")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Service.Port != 8094 {
		t.Errorf("default port = %d, want 8094", cfg.Service.Port)
	}
	if cfg.Service.SessionCookie != "fsid" {
		t.Errorf("default session cookie = %q, want %q", cfg.Service.SessionCookie, "fsid")
	}
	if cfg.Service.FlushInterval != 15*time.Second {
		t.Errorf("default flush interval = %v, want 15s", cfg.Service.FlushInterval)
	}
	if cfg.Service.SessionIdleTTL != 30*time.Minute {
		t.Errorf("default idle TTL = %v, want 30m", cfg.Service.SessionIdleTTL)
	}
	if cfg.Service.LandingFallback != "/landing" {
		t.Errorf("default landing fallback = %q, want %q", cfg.Service.LandingFallback, "/landing")
	}
	if cfg.Geo.Timeout != 3*time.Second {
		t.Errorf("default geo timeout = %v, want 3s", cfg.Geo.Timeout)
	}
	if cfg.RateLimit.MaxTrackPerMinute != 60 {
		t.Errorf("default rate limit = %d, want 60", cfg.RateLimit.MaxTrackPerMinute)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default log level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Database.SSLMode != "disable" {
		t.Errorf("default sslmode = %q, want %q", cfg.Database.SSLMode, "disable")
	}
}

func TestLoad_YAMLValues(t *testing.T) {
	path := writeConfig(t, `
service:
  port: 9001
  session_cookie: sid
  flush_interval: 5s
database:
  host: db.internal
  port: 5433
  database: funnel
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Service.Port != 9001 {
		t.Errorf("port = %d, want 9001", cfg.Service.Port)
	}
	if cfg.Service.SessionCookie != "sid" {
		t.Errorf("session cookie = %q, want %q", cfg.Service.SessionCookie, "sid")
	}
	if cfg.Service.FlushInterval != 5*time.Second {
		t.Errorf("flush interval = %v, want 5s", cfg.Service.FlushInterval)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("db host = %q, want %q", cfg.Database.Host, "db.internal")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FUNNEL_TRACKER_PORT", "9002")
	t.Setenv("POSTGRES_FUNNEL_HOST", "env-host")
	t.Setenv("APP_DEBUG", "true")

	path := writeConfig(t, "service:\n  port: 9001\ndatabase:\n  host: yaml-host\n")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Service.Port != 9002 {
		t.Errorf("port = %d, want env override 9002", cfg.Service.Port)
	}
	if cfg.Database.Host != "env-host" {
		t.Errorf("db host = %q, want env override %q", cfg.Database.Host, "env-host")
	}
	if !cfg.Service.Debug {
		t.Error("expected APP_DEBUG=true to enable debug")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestDSN(t *testing.T) {
	db := config.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "secret",
		Database: "funnel_tracker",
		SSLMode:  "disable",
	}

	want := "host=localhost port=5432 user=postgres password=secret dbname=funnel_tracker sslmode=disable"
	if got := db.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			Service: config.ServiceConfig{
				Port:           8094,
				AdminJWTSecret: "secret",
			},
			Logging: config.LoggingConfig{Level: "info"},
		}
	}

	testCases := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{"valid", func(*config.Config) {}, false},
		{"zero port", func(c *config.Config) { c.Service.Port = 0 }, true},
		{"port too large", func(c *config.Config) { c.Service.Port = 70000 }, true},
		{"missing admin secret", func(c *config.Config) { c.Service.AdminJWTSecret = "" }, true},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "verbose" }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	if got := config.GetConfigPath("config.yml"); got != "config.yml" {
		t.Errorf("GetConfigPath() = %q, want default", got)
	}

	t.Setenv("CONFIG_PATH", "/etc/funnel/config.yml")
	if got := config.GetConfigPath("config.yml"); got != "/etc/funnel/config.yml" {
		t.Errorf("GetConfigPath() = %q, want CONFIG_PATH value", got)
	}
}
