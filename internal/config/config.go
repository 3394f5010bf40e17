// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"workorder-pricing/internal/errors"
	"workorder-pricing/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" hcl:"version,optional"`

	// Currency is the shop currency for all money values
	Currency string `json:"currency" hcl:"currency,optional"`

	// Oracle contains draft-quote oracle settings
	Oracle OracleConfig `json:"oracle" hcl:"oracle,block"`

	// Ledger contains ledger store settings
	Ledger LedgerConfig `json:"ledger" hcl:"ledger,block"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server" hcl:"server,block"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" hcl:"logging,block"`
}

// OracleConfig contains settings for the external draft-quote oracle
type OracleConfig struct {
	// URL is the base URL of the quote endpoint
	URL string `json:"url" hcl:"url,optional"`

	// Token is the bearer token sent with each quote request
	Token string `json:"token,omitempty" hcl:"token,optional"`

	// TimeoutSeconds bounds a single quote round trip
	TimeoutSeconds int `json:"timeout_seconds" hcl:"timeout_seconds,optional"`
}

// LedgerConfig contains settings for the order ledger store
type LedgerConfig struct {
	// Backend selects the store implementation (memory, postgres)
	Backend string `json:"backend" hcl:"backend,optional"`

	// DSN is the connection string for the postgres backend
	DSN string `json:"dsn,omitempty" hcl:"dsn,optional"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Address to listen on
	Address string `json:"address" hcl:"address,optional"`

	// ReadTimeoutSeconds for requests
	ReadTimeoutSeconds int `json:"read_timeout_seconds" hcl:"read_timeout_seconds,optional"`

	// WriteTimeoutSeconds for responses
	WriteTimeoutSeconds int `json:"write_timeout_seconds" hcl:"write_timeout_seconds,optional"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version:  "1.0",
		Currency: "USD",
		Oracle: OracleConfig{
			URL:            "http://localhost:9090/draft-quote",
			TimeoutSeconds: 30,
		},
		Ledger: LedgerConfig{
			Backend: "memory",
		},
		Server: ServerConfig{
			Address:             ":8080",
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 60,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file. HCL files are decoded with hclsimple;
// anything else is treated as JSON. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	config := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		if err := hclsimple.DecodeFile(path, nil, config); err != nil {
			return nil, errors.Wrap(errors.TypeConfig, "failed to decode HCL config", err)
		}
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "failed to read config", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "failed to parse config", err)
	}

	return config, nil
}

// Save saves configuration to a file as JSON
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
