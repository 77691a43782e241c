// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger builds a JSON logger at cfg.LogLevel writing to cfg.LogFile, or to
// stderr when no file is set. The returned close function releases the file.
func NewLogger(cfg Config) (*logrus.Logger, func() error, error) {
	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidLogLevel, err)
	}

	log := logrus.New()
	log.SetLevel(level)
	log.SetFormatter(&logrus.JSONFormatter{})

	closeFn := func() error { return nil }
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("config: open log file: %w", err)
		}
		log.SetOutput(f)
		closeFn = f.Close
	}
	return log, closeFn, nil
}
