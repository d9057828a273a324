// Package config loads and validates the application configuration from a
// JSON file and from TESCORD_-prefixed environment variables. Environment
// values override file values.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"

	"github.com/tescord/tescord/errors"
)

// EnvPrefix is the environment variable prefix for overrides.
const EnvPrefix = "TESCORD"

// DefaultLanguage is used when the config names none.
const DefaultLanguage = "en"

// ClientConfig describes one platform client connection.
type ClientConfig struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

// Config is the complete application configuration.
type Config struct {
	// Brand prefixes the orchestrator's own event names (e.g. "mybot:ready").
	Brand string `json:"brand" envconfig:"BRAND"`
	// DefaultLanguage is the locale fallback language.
	DefaultLanguage string `json:"default_language" envconfig:"DEFAULT_LANGUAGE"`
	// MetricsAddr, when set, serves Prometheus metrics on this address.
	MetricsAddr string `json:"metrics_addr" envconfig:"METRICS_ADDR"`
	// Clients lists the platform connections to log in on Start.
	Clients []ClientConfig `json:"clients"`
}

// Default returns a configuration with all defaults applied.
func Default() Config {
	return Config{
		Brand:           "tescord",
		DefaultLanguage: DefaultLanguage,
	}
}

// Load reads a JSON config file, applies environment overrides and defaults,
// and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.WrapRegistration(err, "Config", "Load", "read "+path)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.WrapRegistration(err, "Config", "Load", "parse "+path)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, errors.WrapRegistration(err, "Config", "Load", "environment overrides")
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// FromEnv builds a configuration from environment variables alone.
func FromEnv() (Config, error) {
	return Load("")
}

func (c *Config) applyDefaults() {
	if c.Brand == "" {
		c.Brand = "tescord"
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = DefaultLanguage
	}
}

// Validate checks structural invariants: a non-empty brand and language, and
// unique, tokened client entries.
func (c *Config) Validate() error {
	if c.Brand == "" {
		return errors.WrapRegistration(errors.ErrInvalidConfig, "Config", "Validate", "brand")
	}
	if c.DefaultLanguage == "" {
		return errors.WrapRegistration(errors.ErrInvalidConfig, "Config", "Validate", "default language")
	}
	seen := make(map[string]bool, len(c.Clients))
	for i, cl := range c.Clients {
		if cl.ID == "" {
			return errors.WrapRegistration(errors.ErrEmptyID, "Config", "Validate", fmt.Sprintf("client %d", i))
		}
		if seen[cl.ID] {
			return errors.WrapRegistration(errors.ErrDuplicateID, "Config", "Validate", "client "+cl.ID)
		}
		seen[cl.ID] = true
		if cl.Token == "" {
			return errors.WrapRegistration(errors.ErrMissingConfig, "Config", "Validate", "client "+cl.ID+" token")
		}
	}
	return nil
}
