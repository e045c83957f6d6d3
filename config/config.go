/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/suparena/mothership/errors"
)

// Supported store backends
const (
	BackendBadger   = "badger"
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

// Config is the full mothership configuration
type Config struct {
	Port  int   `yaml:"port"`
	Log   Log   `yaml:"log"`
	Store Store `yaml:"store"`
}

// Log configures logging
type Log struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
	File  string `yaml:"file"`
}

// Store configures the directory store
type Store struct {
	Backend    string        `yaml:"backend"`
	Path       string        `yaml:"path"`
	SyncWrites *bool         `yaml:"sync_writes"`
	GCInterval time.Duration `yaml:"gc_interval"`
	DynamoDB   DynamoDB      `yaml:"dynamodb"`
}

// DynamoDB configures the DynamoDB backend
type DynamoDB struct {
	Table     string `yaml:"table"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"-"`
	SecretKey string `yaml:"-"`
}

// Default returns the configuration used for unset fields
func Default() *Config {
	sync := true
	return &Config{
		Log: Log{
			Level: "info",
			Dir:   "logs",
			File:  "mothership.log",
		},
		Store: Store{
			Backend:    BackendBadger,
			Path:       "mothership_db",
			SyncWrites: &sync,
			GCInterval: 10 * time.Minute,
		},
	}
}

// Load reads the YAML file at path, applies .env and environment overrides
// and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults without validating.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("MOTHERSHIP_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.NewValidationError("MOTHERSHIP_PORT", fmt.Sprintf("not a number: %q", v))
		}
		c.Port = port
	}
	if v, ok := lookup("MOTHERSHIP_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("MOTHERSHIP_STORE_BACKEND"); ok && v != "" {
		c.Store.Backend = strings.ToLower(v)
	}
	if v, ok := lookup("MOTHERSHIP_STORE_PATH"); ok && v != "" {
		c.Store.Path = v
	}
	if v, ok := lookup("AWS_ACCESS_KEY"); ok {
		c.Store.DynamoDB.AccessKey = v
	}
	if v, ok := lookup("AWS_SECRET_KEY"); ok {
		c.Store.DynamoDB.SecretKey = v
	}
	if v, ok := lookup("AWS_REGION"); ok && v != "" {
		c.Store.DynamoDB.Region = v
	}
	if v, ok := lookup("AWS_DDB_TABLE"); ok && v != "" {
		c.Store.DynamoDB.Table = v
	}
	if v, ok := lookup("AWS_DDB_ENDPOINT"); ok && v != "" {
		c.Store.DynamoDB.Endpoint = v
	}
	return nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.NewValidationError("port", "must be between 1 and 65535")
	}
	switch c.Store.Backend {
	case BackendBadger:
		if c.Store.Path == "" {
			return errors.NewValidationError("store.path", "required for the badger backend")
		}
	case BackendDynamoDB:
		if c.Store.DynamoDB.Table == "" {
			return errors.NewValidationError("store.dynamodb.table", "required for the dynamodb backend")
		}
		if c.Store.DynamoDB.Region == "" {
			return errors.NewValidationError("store.dynamodb.region", "required for the dynamodb backend")
		}
	case BackendMemory:
	default:
		return errors.NewValidationError("store.backend", fmt.Sprintf("unknown backend %q", c.Store.Backend))
	}
	if c.Store.GCInterval < 0 {
		return errors.NewValidationError("store.gc_interval", "must not be negative")
	}
	return nil
}

// SyncWritesEnabled reports whether store writes are fsynced (default true)
func (s Store) SyncWritesEnabled() bool {
	return s.SyncWrites == nil || *s.SyncWrites
}

// ListenAddr is the address the HTTP server binds to
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}
