// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads, saves and validates the key = value configuration
// file of a passbook ledger, and builds the logger it asks for.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Storage backends.
const (
	BackendBolt   = "bolt"
	BackendMemory = "memory"
)

// Config holds the settings of a passbook ledger.
type Config struct {
	DataDir  string // directory holding the ledger database
	Backend  string // "bolt" or "memory"
	LogLevel string // "debug", "info", "warn", "error"
	LogFile  string // empty logs to stderr

	// ProgramID is the hex-encoded 32-byte id every address is derived under.
	ProgramID string

	// MaxMarketFeeBPS caps the market fee a purchase may request.
	MaxMarketFeeBPS uint16

	// RoyaltyBPS is the royalty creators keep from secondary sales.
	RoyaltyBPS uint16
}

// DefaultDataDir returns ~/.passbook, or .passbook when the home directory
// is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".passbook"
	}
	return filepath.Join(home, ".passbook")
}

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() Config {
	return Config{
		DataDir:         DefaultDataDir(),
		Backend:         BackendBolt,
		LogLevel:        "info",
		ProgramID:       strings.Repeat("00", 31) + "01",
		MaxMarketFeeBPS: 10000,
		RoyaltyBPS:      500,
	}
}

// ConfigPath returns the config file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// DatabasePath returns the bbolt database path inside the data directory.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "ledger.db")
}

// LoadConfig reads path on top of DefaultConfig. Blank lines and lines
// starting with '#' are skipped; unknown keys are ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: open: %w", err)
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
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNo, line)
		}
		if err := cfg.set(strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value)); err != nil {
			return cfg, fmt.Errorf("%w: line %d: %w", ErrInvalidConfigLine, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: read: %w", err)
	}
	return cfg, nil
}

func (c *Config) set(key, value string) error {
	switch key {
	case "datadir":
		c.DataDir = value
	case "backend":
		c.Backend = value
	case "loglevel":
		c.LogLevel = value
	case "logfile":
		c.LogFile = value
	case "programid":
		c.ProgramID = value
	case "maxmarketfee":
		v, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return fmt.Errorf("maxmarketfee: %w", err)
		}
		c.MaxMarketFeeBPS = uint16(v)
	case "royalty":
		v, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return fmt.Errorf("royalty: %w", err)
		}
		c.RoyaltyBPS = uint16(v)
	}
	return nil
}

// SaveConfig writes cfg to path, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# PassBook Configuration\n\n")
	fmt.Fprintf(&b, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "backend = %s\n", cfg.Backend)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "logfile = %s\n", cfg.LogFile)
	fmt.Fprintf(&b, "programid = %s\n", cfg.ProgramID)
	fmt.Fprintf(&b, "maxmarketfee = %d\n", cfg.MaxMarketFeeBPS)
	fmt.Fprintf(&b, "royalty = %d\n", cfg.RoyaltyBPS)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	return nil
}

// ParseLogLevel maps a level name to its slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	if !validLogLevels[strings.ToLower(level)] {
		return l, ErrInvalidLogLevel
	}
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return l, fmt.Errorf("%w: %w", ErrInvalidLogLevel, err)
	}
	return l, nil
}

// NewLogger builds a text logger at cfg.LogLevel writing to cfg.LogFile, or
// stderr when no file is set. The returned closer releases the file.
func NewLogger(cfg Config) (*slog.Logger, io.Closer, error) {
	level, err := ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = os.Stderr
	var closer io.Closer = io.NopCloser(nil)
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0700); err != nil {
			return nil, nil, fmt.Errorf("config: create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("config: open log file: %w", err)
		}
		w, closer = f, f
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, closer, nil
}
