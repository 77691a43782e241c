// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidNetwork indicates the network name is not recognized.
	ErrInvalidNetwork = errors.New("config: invalid network (must be \"mainnet\", \"testnet\", or \"regtest\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrInvalidSupply indicates the raffle supply is zero.
	ErrInvalidSupply = errors.New("config: supply must be positive")

	// ErrInvalidRoyalties indicates the royalty list or pool rate is malformed or invalid.
	ErrInvalidRoyalties = errors.New("config: invalid royalties")

	// ErrSupplyMismatch indicates the stored population has a different supply.
	ErrSupplyMismatch = errors.New("config: supply differs from stored population")

	// ErrRoyaltyMismatch indicates the stored royalty terms differ from the configured ones.
	ErrRoyaltyMismatch = errors.New("config: royalties differ from stored population")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")

	// ErrInvalidValue indicates a numeric configuration value failed to parse.
	ErrInvalidValue = errors.New("config: invalid value")
)
