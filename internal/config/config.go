// Package config loads hermes's on-disk configuration: transport
// settings and the three named remote directories the CLI layer
// uploads to and downloads from. The teacher loads its service config
// from os.Getenv one-liners with a getEnv(key, fallback) helper; this
// package keeps that fallback texture for environment overrides but
// backs the on-disk table with a TOML file instead of a flat env list,
// since the config here is a real nested table, not a dozen scalars.
package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

// Transport describes how sealed artifacts reach the remote store.
type Transport struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	KeyFile  string `toml:"key_file"`
	Timeout  int    `toml:"timeout_seconds"`
}

// RemoteDirs names the three remote paths the CLI uploads to / lists.
type RemoteDirs struct {
	Inbox  string `toml:"inbox"`
	Outbox string `toml:"outbox"`
	Files  string `toml:"files"`
}

// Config is the parsed contents of hermes/config.toml.
type Config struct {
	Transport Transport  `toml:"transport"`
	Remote    RemoteDirs `toml:"remote"`
}

// Default returns the configuration used when no config.toml exists.
func Default() *Config {
	return &Config{
		Transport: Transport{
			Host:    "localhost",
			Port:    22,
			Timeout: 30,
		},
		Remote: RemoteDirs{
			Inbox:  "inbox",
			Outbox: "outbox",
			Files:  "files",
		},
	}
}

// Load reads path (TOML) and overlays environment overrides. A missing
// file is not an error: Default() is returned with env overrides
// applied. A malformed file is ConfigError.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, herrors.New(herrors.IoError, "config.Load", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, herrors.New(herrors.ConfigError, "config.Load", err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("HERMES_TRANSPORT_HOST"); v != "" {
		cfg.Transport.Host = v
	}
	if v := os.Getenv("HERMES_TRANSPORT_USER"); v != "" {
		cfg.Transport.User = v
	}
	if v := os.Getenv("HERMES_TRANSPORT_KEYFILE"); v != "" {
		cfg.Transport.KeyFile = v
	}
}

// HomeDir returns the hermes home directory ($HERMES_HOME or ~/.hermes).
func HomeDir() (string, error) {
	if v := os.Getenv("HERMES_HOME"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", herrors.New(herrors.ConfigError, "config.HomeDir", err)
	}
	return filepath.Join(home, ".hermes"), nil
}

// ConfigDir returns the user config directory housing config.toml
// ($HERMES_CONFIG_DIR or the OS user-config-dir plus "hermes").
func ConfigDir() (string, error) {
	if v := os.Getenv("HERMES_CONFIG_DIR"); v != "" {
		return v, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", herrors.New(herrors.ConfigError, "config.ConfigDir", err)
	}
	return filepath.Join(dir, "hermes"), nil
}
