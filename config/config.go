// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads, saves and validates raffle sale configuration.
//
// The file format is one "key = value" pair per line. Blank lines and lines
// starting with '#' are ignored, unknown keys are skipped, and values may
// contain '='. Environment variables override file values (see ApplyEnv).
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds the settings of one raffle sale.
type Config struct {
	DataDir      string `env:"LIBRAFFLE_DATADIR"`
	Network      string `env:"LIBRAFFLE_NETWORK"`
	LogLevel     string `env:"LIBRAFFLE_LOGLEVEL"`
	LogFile      string `env:"LIBRAFFLE_LOGFILE"`
	Supply       uint64 `env:"LIBRAFFLE_SUPPLY"`
	UnitPrice    uint64 `env:"LIBRAFFLE_UNIT_PRICE"`
	PoolRate     uint16 `env:"LIBRAFFLE_POOL_RATE"`
	Royalties    string `env:"LIBRAFFLE_ROYALTIES"`
	MaxLenPayout uint32 `env:"LIBRAFFLE_MAX_LEN_PAYOUT"` // 0 means no cap
}

// DefaultDataDir returns ~/.libraffle, or ./.libraffle if the home directory
// cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".libraffle"
	}
	return filepath.Join(home, ".libraffle")
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		DataDir:   DefaultDataDir(),
		Network:   "mainnet",
		LogLevel:  "info",
		Supply:    10_000,
		UnitPrice: 100_000_000,
	}
}

// ConfigPath returns the config file location inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// DBPath returns the population database location inside dataDir.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, "raffle.db")
}

// LoadConfig reads the file at path over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, err := parseKeyValue(line)
		if err != nil {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNo, line)
		}
		if err := cfg.set(key, value); err != nil {
			return cfg, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# libraffle configuration\n\n")
	fmt.Fprintf(&b, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "network = %s\n", cfg.Network)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "logfile = %s\n", cfg.LogFile)
	b.WriteString("\n# Sale\n")
	fmt.Fprintf(&b, "supply = %d\n", cfg.Supply)
	fmt.Fprintf(&b, "unitprice = %d\n", cfg.UnitPrice)
	b.WriteString("\n# Royalties: account:bps,account:bps (bps out of 10000)\n")
	fmt.Fprintf(&b, "poolrate = %d\n", cfg.PoolRate)
	fmt.Fprintf(&b, "royalties = %s\n", cfg.Royalties)
	fmt.Fprintf(&b, "maxlenpayout = %d\n", cfg.MaxLenPayout)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// parseKeyValue splits a line on its first '='.
func parseKeyValue(line string) (string, string, error) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", ErrInvalidConfigLine
	}
	return strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value), nil
}

func (c *Config) set(key, value string) error {
	var err error
	switch key {
	case "datadir":
		c.DataDir = value
	case "network":
		c.Network = value
	case "loglevel":
		c.LogLevel = value
	case "logfile":
		c.LogFile = value
	case "supply":
		c.Supply, err = strconv.ParseUint(value, 10, 64)
	case "unitprice":
		c.UnitPrice, err = strconv.ParseUint(value, 10, 64)
	case "poolrate":
		var v uint64
		v, err = strconv.ParseUint(value, 10, 16)
		c.PoolRate = uint16(v)
	case "royalties":
		c.Royalties = value
	case "maxlenpayout":
		var v uint64
		v, err = strconv.ParseUint(value, 10, 32)
		c.MaxLenPayout = uint32(v)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidValue, key, err)
	}
	return nil
}
