// Copyright 2025 The dgb Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads and persists the application's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is the persisted application configuration.
type Config struct {
	Window    WindowConfig    `toml:"window"`
	Theme     ThemeConfig     `toml:"theme"`
	Engine    EngineConfig    `toml:"engine"`
	Generator GeneratorConfig `toml:"generator"`
	Log       LogConfig       `toml:"log"`
}

// WindowConfig holds window geometry.
type WindowConfig struct {
	Width  float32 `toml:"width"`
	Height float32 `toml:"height"`
}

// ThemeConfig holds appearance settings.
type ThemeConfig struct {
	// Variant is "system", "light" or "dark".
	Variant string `toml:"variant"`
}

// EngineConfig holds filtering/indexing settings.
type EngineConfig struct {
	// Workers is the index-build worker pool size; 0 means NumCPU.
	Workers int `toml:"workers"`
}

// GeneratorConfig holds sample dataset generation settings.
type GeneratorConfig struct {
	// Rows is the default generated dataset size.
	Rows int `toml:"rows"`
	// Seed makes generation reproducible when non-zero.
	Seed int64 `toml:"seed"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Window:    WindowConfig{Width: 1100, Height: 720},
		Theme:     ThemeConfig{Variant: "system"},
		Engine:    EngineConfig{Workers: runtime.NumCPU()},
		Generator: GeneratorConfig{Rows: 250000},
		Log:       LogConfig{Level: "info"},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "dgb", "config.toml"), nil
}

// Load reads the config at path, filling unset fields with defaults.
// A missing file is not an error; defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if cfg.Engine.Workers <= 0 {
		cfg.Engine.Workers = runtime.NumCPU()
	}
	if cfg.Generator.Rows <= 0 {
		cfg.Generator.Rows = Default().Generator.Rows
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories as needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
