// Package config resolves opsassist settings: built-in defaults, then an
// optional TOML file, then OPSASSIST_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "OPSASSIST_"

// PathEnv names a config file explicitly.
const PathEnv = EnvPrefix + "CONFIG"

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Audit    AuditConfig    `toml:"audit"`
	Drafting DraftingConfig `toml:"drafting"`
	Logging  LoggingConfig  `toml:"logging"`
}

type ServerConfig struct {
	Addr           string        `toml:"addr"             env:"SERVER_ADDR"`
	CORSOrigins    []string      `toml:"cors_origins"     env:"SERVER_CORS_ORIGINS" envSeparator:","`
	RateLimitRPS   float64       `toml:"rate_limit_rps"   env:"SERVER_RATE_LIMIT_RPS"`   // 0 disables limiting
	RateLimitBurst int           `toml:"rate_limit_burst" env:"SERVER_RATE_LIMIT_BURST"`
	ReadTimeout    time.Duration `toml:"read_timeout"     env:"SERVER_READ_TIMEOUT"`
	WatchSchemas   bool          `toml:"watch_schemas"    env:"SERVER_WATCH_SCHEMAS"`
}

type AuditConfig struct {
	Enabled      bool   `toml:"enabled"       env:"AUDIT_ENABLED"`
	Dir          string `toml:"dir"           env:"AUDIT_DIR"`
	IndexEnabled bool   `toml:"index_enabled" env:"AUDIT_INDEX_ENABLED"`
	IndexPath    string `toml:"index_path"    env:"AUDIT_INDEX_PATH"` // defaults to {dir}/index.db
}

// ResolvedIndexPath is IndexPath, or index.db inside Dir when unset.
func (a AuditConfig) ResolvedIndexPath() string {
	if a.IndexPath != "" {
		return a.IndexPath
	}
	return filepath.Join(a.Dir, "index.db")
}

type DraftingConfig struct {
	DefaultTopN int `toml:"default_top_n" env:"DRAFTING_DEFAULT_TOP_N"`
	MaxTopN     int `toml:"max_top_n"     env:"DRAFTING_MAX_TOP_N"`
}

type LoggingConfig struct {
	Level  string `toml:"level"  env:"LOG_LEVEL"`  // debug, info, warn, error
	Format string `toml:"format" env:"LOG_FORMAT"` // text, json
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           "127.0.0.1:8000",
			CORSOrigins:    []string{"*"},
			RateLimitRPS:   20,
			RateLimitBurst: 40,
			ReadTimeout:    10 * time.Second,
			WatchSchemas:   true,
		},
		Audit: AuditConfig{
			Enabled:      true,
			Dir:          "audit",
			IndexEnabled: true,
		},
		Drafting: DraftingConfig{
			DefaultTopN: 100,
			MaxTopN:     10000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load resolves the config file from OPSASSIST_CONFIG or
// ~/.opsassist/config.toml and applies it with environment overrides. A
// missing default file is not an error; a missing explicit one is.
func Load() (Config, error) {
	if path := os.Getenv(PathEnv); path != "" {
		return LoadFile(path, true)
	}
	return LoadFile(DefaultPath(), false)
}

// DefaultPath is ~/.opsassist/config.toml, or "" without a home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".opsassist", "config.toml")
}

// LoadFile applies the TOML file at path (if present), then environment
// overrides, then validates.
func LoadFile(path string, required bool) (Config, error) {
	cfg := Default()

	if path != "" {
		_, err := toml.DecodeFile(path, &cfg)
		switch {
		case err == nil:
		case errors.Is(err, os.ErrNotExist) && !required:
		default:
			return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"text", "json"}
)

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	if c.Server.RateLimitRPS < 0 {
		errs = append(errs, errors.New("server.rate_limit_rps must not be negative"))
	}
	if c.Server.RateLimitRPS > 0 && c.Server.RateLimitBurst < 1 {
		errs = append(errs, errors.New("server.rate_limit_burst must be at least 1 when rate limiting is on"))
	}
	for _, o := range c.Server.CORSOrigins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			errs = append(errs, fmt.Errorf("server.cors_origins entry %q must be \"*\" or an http(s) origin", o))
		}
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, errors.New("server.read_timeout must not be negative"))
	}
	if c.Audit.Enabled && c.Audit.Dir == "" {
		errs = append(errs, errors.New("audit.dir must not be empty when auditing is enabled"))
	}
	if c.Drafting.MaxTopN < 1 {
		errs = append(errs, errors.New("drafting.max_top_n must be at least 1"))
	}
	if c.Drafting.DefaultTopN < 1 || c.Drafting.DefaultTopN > c.Drafting.MaxTopN {
		errs = append(errs, fmt.Errorf("drafting.default_top_n must be between 1 and %d", c.Drafting.MaxTopN))
	}
	if !slices.Contains(validLevels, c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level %q is not one of %v", c.Logging.Level, validLevels))
	}
	if !slices.Contains(validFormats, c.Logging.Format) {
		errs = append(errs, fmt.Errorf("logging.format %q is not one of %v", c.Logging.Format, validFormats))
	}
	return errors.Join(errs...)
}
