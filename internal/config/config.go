package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"

	defaultJWTSecret    = "supersecretkey"
	defaultTickInterval = time.Second
)

type Config struct {
	Addr          string        `yaml:"addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"timeout"`
	TokenDuration time.Duration `yaml:"token_duration"`
	Store         StoreConfig   `yaml:"store"`
	Events        EventsConfig  `yaml:"events"`
}

// StoreConfig selects the record store backing the mission service.
type StoreConfig struct {
	Driver         string `yaml:"driver"`
	Path           string `yaml:"path"`
	MigrateOnStart bool   `yaml:"migrate_on_start"`
}

type EventsConfig struct {
	// TickInterval paces the elapsed-time ticks on event streams.
	TickInterval time.Duration `yaml:"tick_interval"`
}

func LoadConfig(path string) (*Config, error) {
	apiTimeout := 15 * time.Second
	tokenDuration := 1 * time.Hour

	cfg := &Config{
		Addr:          getEnv("MISSIONDECK_ADDR", ":8080"),
		JWTSecret:     getEnv("MISSIONDECK_JWT_SECRET", defaultJWTSecret),
		APITimeout:    apiTimeout,
		TokenDuration: tokenDuration,
		Store: StoreConfig{
			Driver:         getEnv("MISSIONDECK_STORE", DriverSQLite),
			Path:           getEnv("MISSIONDECK_DATABASE_PATH", "missiondeck.db"),
			MigrateOnStart: true,
		},
		Events: EventsConfig{TickInterval: defaultTickInterval},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate rejects unusable settings and fills zero-valued optional ones.
// The built-in JWT secret is only accepted when MISSIONDECK_ENV=development.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if c.JWTSecret == "" {
		return errors.New("jwt_secret is required")
	}
	if c.JWTSecret == defaultJWTSecret && os.Getenv("MISSIONDECK_ENV") != "development" {
		return errors.New("jwt_secret uses the insecure default; set MISSIONDECK_JWT_SECRET")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.APITimeout)
	}
	if c.TokenDuration <= 0 {
		return fmt.Errorf("token_duration must be positive, got %v", c.TokenDuration)
	}

	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.Path == "" {
			return errors.New("store.path is required for the sqlite driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}

	if c.Events.TickInterval == 0 {
		c.Events.TickInterval = defaultTickInterval
	}
	if c.Events.TickInterval < 0 {
		return fmt.Errorf("events.tick_interval must be positive, got %v", c.Events.TickInterval)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
