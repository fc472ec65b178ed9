// Package config builds the mise-nix configuration exactly once at
// process start. The resulting value is threaded explicitly into every
// component; nothing else in the codebase reads the process environment
// ad hoc.
//
// Precedence, lowest to highest: built-in defaults, the optional TOML
// config file, environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Environment variables recognized at startup.
const (
	EnvConfig   = "MISE_NIX_CONFIG"
	EnvProfile  = "MISE_NIX_PROFILE"
	EnvNixBin   = "MISE_NIX_BIN"
	EnvRegistry = "MISE_NIX_REGISTRY"
	EnvCacheDir = "MISE_NIX_CACHE_DIR"
	EnvCacheTTL = "MISE_NIX_CACHE_TTL"
)

// DefaultCacheTTL bounds how long resolved flake metadata is reused
// before the network is consulted again.
const DefaultCacheTTL = 24 * time.Hour

// Config holds every externally configurable value.
type Config struct {
	// ProfilePath is the dedicated nix profile tracking mise-nix
	// installations. mise-nix uses exactly this one profile; the
	// shared system profile is never touched.
	ProfilePath string `toml:"profile"`

	// NixBin is the nix binary name or absolute path.
	NixBin string `toml:"nix_bin"`

	// Registry is the default flake that tool requests without an
	// explicit reference resolve against.
	Registry string `toml:"registry"`

	// CacheDir stores memoized flake metadata lookups.
	CacheDir string `toml:"cache_dir"`

	// CacheTTL is the metadata cache expiry.
	CacheTTL Duration `toml:"cache_ttl"`
}

// Duration wraps time.Duration with TOML text decoding ("24h", "30m").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped standard duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load builds the configuration from defaults, the optional config
// file, and environment overrides, in that order.
func Load() (*Config, error) {
	cfg := defaults()

	path := configFilePath()
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ProfilePath: filepath.Join(stateDir(), "mise-nix", "profile"),
		NixBin:      "nix",
		Registry:    "github:kenbanks-peng/mise-nix-registry",
		CacheDir:    filepath.Join(cacheDir(), "mise-nix"),
		CacheTTL:    Duration(DefaultCacheTTL),
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvProfile); v != "" {
		cfg.ProfilePath = v
	}
	if v := os.Getenv(EnvNixBin); v != "" {
		cfg.NixBin = v
	}
	if v := os.Getenv(EnvRegistry); v != "" {
		cfg.Registry = v
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv(EnvCacheTTL); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			cfg.CacheTTL = Duration(ttl)
		}
	}
}

// configFilePath returns the config file location, honoring the
// explicit override first.
func configFilePath() string {
	if v := os.Getenv(EnvConfig); v != "" {
		return v
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mise-nix", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.toml")
	}
	return filepath.Join(home, ".config", "mise-nix", "config.toml")
}

func stateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return xdg
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "state")
}

func cacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "."
	}
	return dir
}
