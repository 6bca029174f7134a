package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// DirName is the per-workspace configuration directory.
const DirName = ".btevta"

// Environment variables that override config.json.
const (
	EnvDBPath           = "BTEVTA_DB_PATH"
	EnvLogLevel         = "BTEVTA_LOG_LEVEL"
	EnvLogFormat        = "BTEVTA_LOG_FORMAT"
	EnvIssuingAuthority = "BTEVTA_ISSUING_AUTHORITY"
	EnvPassPercentage   = "BTEVTA_PASS_PERCENTAGE"
)

// Config represents the btevta configuration
type Config struct {
	Version          string  `json:"version"`
	DBPath           string  `json:"db_path,omitempty"`           // empty means ~/.btevta/btevta.db
	LogLevel         string  `json:"log_level,omitempty"`         // debug, info, warn, error
	LogFormat        string  `json:"log_format,omitempty"`        // console or json
	IssuingAuthority string  `json:"issuing_authority,omitempty"` // printed on certificates
	PassPercentage   float64 `json:"pass_percentage,omitempty"`   // assessment pass mark, 0-100
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		Version:          "1",
		LogLevel:         "warn",
		LogFormat:        "console",
		IssuingAuthority: "BTEVTA",
		PassPercentage:   50,
	}
}

// LoadConfig reads .btevta/config.json from the specified directory.
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, DirName, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	cfgDir := filepath.Join(dir, DirName)
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", DirName, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(cfgDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Load resolves the effective configuration for dir.
// Resolution order (later wins): defaults, .btevta/config.json, .env, process environment.
// Missing files are skipped.
func Load(dir string) (*Config, error) {
	cfg := Default()

	fileCfg, err := LoadConfig(dir)
	switch {
	case err == nil:
		cfg.merge(fileCfg)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}

	dotenv, err := godotenv.Read(filepath.Join(dir, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) merge(other *Config) {
	if other.Version != "" {
		c.Version = other.Version
	}
	if other.DBPath != "" {
		c.DBPath = other.DBPath
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.IssuingAuthority != "" {
		c.IssuingAuthority = other.IssuingAuthority
	}
	if other.PassPercentage != 0 {
		c.PassPercentage = other.PassPercentage
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDBPath); ok && v != "" {
		c.DBPath = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.LogFormat = v
	}
	if v, ok := lookup(EnvIssuingAuthority); ok && v != "" {
		c.IssuingAuthority = v
	}
	if v, ok := lookup(EnvPassPercentage); ok && v != "" {
		pct, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPassPercentage, v, err)
		}
		c.PassPercentage = pct
	}
	return c.Validate()
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.PassPercentage <= 0 || c.PassPercentage > 100 {
		return fmt.Errorf("pass percentage must be in (0, 100], got %g", c.PassPercentage)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log format must be console or json, got %q", c.LogFormat)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}
