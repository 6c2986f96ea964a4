package config_test

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/garnizeh/missiondeck/internal/config"
)

func validConfig() *config.Config {
	return &config.Config{
		Addr:          ":8080",
		JWTSecret:     "strongsecret",
		APITimeout:    5 * time.Second,
		TokenDuration: 1 * time.Hour,
		Store:         config.StoreConfig{Driver: config.DriverSQLite, Path: "missiondeck.db"},
	}
}

func TestValidate_InsecureJWT_FailsWhenNotDevelopment(t *testing.T) {
	t.Setenv("MISSIONDECK_ENV", "production")

	cfg := validConfig()
	cfg.JWTSecret = "supersecretkey"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for insecure JWT in non-development env")
	}
}

func TestValidate_InsecureJWT_AllowsDevelopment(t *testing.T) {
	t.Setenv("MISSIONDECK_ENV", "development")

	cfg := validConfig()
	cfg.JWTSecret = "supersecretkey"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected Validate to succeed in development env, got: %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	t.Setenv("MISSIONDECK_ENV", "development")

	tests := []struct {
		name    string
		prepare func(*config.Config)
		wantMsg string
	}{
		{name: "empty addr", prepare: func(c *config.Config) { c.Addr = "" }, wantMsg: "addr"},
		{name: "empty secret", prepare: func(c *config.Config) { c.JWTSecret = "" }, wantMsg: "jwt_secret"},
		{name: "zero timeout", prepare: func(c *config.Config) { c.APITimeout = 0 }, wantMsg: "timeout"},
		{name: "negative token duration", prepare: func(c *config.Config) { c.TokenDuration = -time.Second }, wantMsg: "token_duration"},
		{name: "unknown driver", prepare: func(c *config.Config) { c.Store.Driver = "postgres" }, wantMsg: "store.driver"},
		{name: "sqlite without path", prepare: func(c *config.Config) { c.Store.Path = "" }, wantMsg: "store.path"},
		{name: "negative tick", prepare: func(c *config.Config) { c.Events.TickInterval = -time.Second }, wantMsg: "tick_interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.prepare(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected Validate to fail")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestValidate_MemoryDriverNeedsNoPath(t *testing.T) {
	cfg := validConfig()
	cfg.Store = config.StoreConfig{Driver: config.DriverMemory}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed unexpectedly: %v", err)
	}
}

func TestValidate_TickIntervalDefaultPopulated(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed unexpectedly: %v", err)
	}

	if cfg.Events.TickInterval != time.Second {
		t.Fatalf("expected TickInterval default of 1s, got %v", cfg.Events.TickInterval)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	// Ensure environment does not interfere
	for _, k := range []string{"MISSIONDECK_ADDR", "MISSIONDECK_JWT_SECRET", "MISSIONDECK_DATABASE_PATH", "MISSIONDECK_STORE"} {
		t.Setenv(k, "")
	}

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error for empty path: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected Addr: got %q want %q", cfg.Addr, ":8080")
	}
	if cfg.JWTSecret != "supersecretkey" {
		t.Fatalf("unexpected JWTSecret: got %q want %q", cfg.JWTSecret, "supersecretkey")
	}
	if cfg.Store.Driver != config.DriverSQLite || cfg.Store.Path != "missiondeck.db" {
		t.Fatalf("unexpected Store: %+v", cfg.Store)
	}
	if !cfg.Store.MigrateOnStart {
		t.Fatalf("expected MigrateOnStart default true")
	}
	if cfg.APITimeout != 15*time.Second {
		t.Fatalf("unexpected APITimeout: got %v want %v", cfg.APITimeout, 15*time.Second)
	}
	if cfg.TokenDuration != 1*time.Hour {
		t.Fatalf("unexpected TokenDuration: got %v want %v", cfg.TokenDuration, 1*time.Hour)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("MISSIONDECK_ADDR", ":7070")
	t.Setenv("MISSIONDECK_STORE", "memory")
	t.Setenv("MISSIONDECK_DATABASE_PATH", "/tmp/other.db")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Fatalf("unexpected Addr: got %q", cfg.Addr)
	}
	if cfg.Store.Driver != "memory" || cfg.Store.Path != "/tmp/other.db" {
		t.Fatalf("unexpected Store: %+v", cfg.Store)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	// Create a temp YAML file with overrides
	f, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	f.Close()

	content := []byte(`addr: ":9090"
jwt_secret: "filekey"
timeout: "30s"
token_duration: "2h"
store:
  driver: memory
  path: "test.db"
  migrate_on_start: false
events:
  tick_interval: "250ms"
`)
	if err := os.WriteFile(f.Name(), content, 0o600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := config.LoadConfig(f.Name())
	if err != nil {
		t.Fatalf("LoadConfig returned error for file: %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Fatalf("unexpected Addr: got %q want %q", cfg.Addr, ":9090")
	}
	if cfg.JWTSecret != "filekey" {
		t.Fatalf("unexpected JWTSecret: got %q want %q", cfg.JWTSecret, "filekey")
	}
	if cfg.Store.Driver != "memory" || cfg.Store.Path != "test.db" || cfg.Store.MigrateOnStart {
		t.Fatalf("unexpected Store: %+v", cfg.Store)
	}
	if cfg.APITimeout != 30*time.Second {
		t.Fatalf("unexpected APITimeout: got %v want %v", cfg.APITimeout, 30*time.Second)
	}
	if cfg.TokenDuration != 2*time.Hour {
		t.Fatalf("unexpected TokenDuration: got %v want %v", cfg.TokenDuration, 2*time.Hour)
	}
	if cfg.Events.TickInterval != 250*time.Millisecond {
		t.Fatalf("unexpected TickInterval: got %v", cfg.Events.TickInterval)
	}
}

func TestLoadConfig_BadPath(t *testing.T) {
	if _, err := config.LoadConfig("/path/that/does/not/exist.yaml"); err == nil {
		t.Fatalf("expected error for nonexistent path, got nil")
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := t.TempDir() + "/bad.yaml"
	if err := os.WriteFile(path, []byte("addr: [unclosed\n"), 0o600); err != nil {
		t.Fatalf("failed to write bad yaml: %v", err)
	}

	if _, err := config.LoadConfig(path); err == nil {
		t.Fatalf("expected error for bad yaml, got nil")
	}
}
