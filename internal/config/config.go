//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package config contains the dnsquery configuration.
package config

import (
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// Config holds the dnsquery configuration.
type Config struct {
	// Server is the address of the DNS server.
	Server string `toml:"server" default:"8.8.8.8"`

	// Port is the UDP port of the DNS server.
	Port int `toml:"port" default:"53"`

	// Timeout bounds the exchange, e.g., "5s".
	Timeout string `toml:"timeout" default:"5s"`

	// Names contains the names to query for.
	Names []string `toml:"names"`

	// IDNA enables converting internationalized names.
	IDNA bool `toml:"idna"`

	// Verbose enables dumping the decoded Go values.
	Verbose bool `toml:"verbose"`
}

// DefaultNames contains the names queried when none are configured.
var DefaultNames = []string{"www.wp.pl", "www.vatican.va"}

// SetDefaults implements defaults.Setter.
func (cfg *Config) SetDefaults() {
	if len(cfg.Names) < 1 {
		cfg.Names = append([]string{}, DefaultNames...)
	}
}

// Default returns the default configuration.
func Default() (*Config, error) {
	cfg := new(Config)
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}
	return cfg, nil
}

// Load reads the TOML configuration at path and fills the
// missing fields with their defaults. An empty path means
// using the defaults only.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path) // #nosec
	if err != nil {
		return nil, errors.WithStack(err)
	}
	cfg := new(Config)
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}
	return cfg, nil
}

// Validate checks the configuration.
func (cfg *Config) Validate() error {
	if cfg.Server == "" {
		return errors.New("empty dns server")
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return errors.Errorf("invalid port: %d", cfg.Port)
	}
	if _, err := cfg.TimeoutDuration(); err != nil {
		return err
	}
	if len(cfg.Names) < 1 {
		return errors.New("no names to query for")
	}
	return nil
}

// TimeoutDuration parses the timeout.
func (cfg *Config) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return 0, errors.Wrap(err, "invalid timeout")
	}
	if d <= 0 {
		return 0, errors.Errorf("invalid timeout: %s", cfg.Timeout)
	}
	return d, nil
}
