// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"encoding/hex"
	"strings"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.Backend != BackendBolt && cfg.Backend != BackendMemory {
		return ErrInvalidBackend
	}

	if cfg.Backend == BackendBolt && cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if b, err := hex.DecodeString(cfg.ProgramID); err != nil || len(b) != 32 {
		return ErrInvalidProgramID
	}

	if cfg.MaxMarketFeeBPS > 10000 || cfg.RoyaltyBPS > 10000 {
		return ErrInvalidBasisPoints
	}

	return nil
}
