// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads initool's own settings.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/deverl/initool/envvar"
	"github.com/tailscale/hujson"
)

// Environment variables consulted by Load.
const (
	EnvAtomicWrite = "INITOOL_ATOMIC_WRITE"
	EnvLogLevel    = "INITOOL_LOG_LEVEL"
)

// Log levels accepted in Config.LogLevel.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Errors returned by Load.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigInvalid      = errors.New("invalid config")
)

// Config holds all configuration options.
type Config struct {
	// AtomicWrite replaces edited files through a temporary file and rename
	// instead of rewriting them in place.
	AtomicWrite bool
	// LogLevel is the minimum level of diagnostics printed to stderr.
	LogLevel string

	// Sources records which config files were loaded.
	Sources Sources
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global   string // empty if no global config was found
	Explicit string // empty if no --config was given
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{LogLevel: LevelWarn}
}

// Overrides are settings from command-line flags. Nil fields leave the
// loaded value alone.
type Overrides struct {
	AtomicWrite *bool
	LogLevel    *string
}

// fileConfig is the on-disk form. Pointers distinguish unset fields from
// zero values.
type fileConfig struct {
	AtomicWrite *bool   `json:"atomic_write"`
	LogLevel    *string `json:"log_level"`
}

// Load resolves the configuration with the following precedence (highest
// wins):
//
//  1. Defaults
//  2. Global config ($XDG_CONFIG_HOME/initool/config.json or
//     ~/.config/initool/config.json), if it exists
//  3. The explicit config file at configPath, if non-empty; it must exist
//  4. Environment variables
//  5. Overrides
func Load(configPath string, env map[string]string, over Overrides) (Config, error) {
	cfg := Default()

	if globalPath := GlobalPath(env); globalPath != "" {
		fc, loaded, err := loadFile(globalPath, false)
		if err != nil {
			return Config{}, err
		}
		if loaded {
			cfg = merge(cfg, fc)
			cfg.Sources.Global = globalPath
		}
	}

	if configPath != "" {
		fc, _, err := loadFile(configPath, true)
		if err != nil {
			return Config{}, err
		}
		cfg = merge(cfg, fc)
		cfg.Sources.Explicit = configPath
	}

	atomic, ok, err := envvar.LookupBool(env, EnvAtomicWrite)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	if ok {
		cfg.AtomicWrite = atomic
	}
	if level := envvar.Get(env, EnvLogLevel, ""); level != "" {
		cfg.LogLevel = level
	}

	if over.AtomicWrite != nil {
		cfg.AtomicWrite = *over.AtomicWrite
	}
	if over.LogLevel != nil {
		cfg.LogLevel = *over.LogLevel
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// GlobalPath returns the path of the global config file, or the empty
// string if neither XDG_CONFIG_HOME nor HOME is set.
func GlobalPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "initool", "config.json")
	}
	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "initool", "config.json")
	}
	return ""
}

// loadFile reads a JSONC config file. If mustExist is false, a missing file
// is reported as not loaded instead of an error.
func loadFile(path string, mustExist bool) (fileConfig, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !mustExist {
		return fileConfig{}, false, nil
	}
	if os.IsNotExist(err) {
		return fileConfig{}, false, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
	}
	if err != nil {
		return fileConfig{}, false, fmt.Errorf("read config: %w", err)
	}
	fc, err := parse(data)
	if err != nil {
		return fileConfig{}, false, fmt.Errorf("%w %s: %v", ErrConfigInvalid, path, err)
	}
	return fc, true, nil
}

func parse(data []byte) (fileConfig, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSONC: %w", err)
	}
	var fc fileConfig
	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return fc, nil
}

func merge(base Config, overlay fileConfig) Config {
	if overlay.AtomicWrite != nil {
		base.AtomicWrite = *overlay.AtomicWrite
	}
	if overlay.LogLevel != nil {
		base.LogLevel = *overlay.LogLevel
	}
	return base
}

func validate(cfg Config) error {
	switch cfg.LogLevel {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return nil
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrConfigInvalid, cfg.LogLevel)
	}
}
