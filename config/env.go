// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ApplyEnv overrides cfg with any LIBRAFFLE_* variables set in the process
// environment. Unset variables leave the existing value in place.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("%w: parse env: %w", ErrInvalidValue, err)
	}
	return nil
}

// ApplyEnvFrom is ApplyEnv over an explicit environment.
func ApplyEnvFrom(cfg *Config, environ map[string]string) error {
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("%w: parse env: %w", ErrInvalidValue, err)
	}
	return nil
}

// Load reads the config file in dataDir if present, applies the environment
// and validates the result.
func Load(dataDir string) (Config, error) {
	cfg, err := LoadConfig(ConfigPath(dataDir))
	switch {
	case errors.Is(err, ErrConfigNotFound):
		cfg = DefaultConfig()
		cfg.DataDir = dataDir
	case err != nil:
		return Config{}, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
