// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package util

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultSocketName is the Unix socket the device listens on, relative to
// the data directory.
const DefaultSocketName = "htrsigner.sock"

// DefaultSeedName is the encrypted seed envelope file, relative to the data
// directory.
const DefaultSeedName = "seed.json"

// DeviceConfig represents the htrsignerd configuration file.
type DeviceConfig struct {
	SocketPath string `yaml:"socket_path" description:"Unix socket path for host connections" default:"htrsigner.sock"`
	SeedPath   string `yaml:"seed_path" description:"Encrypted seed envelope path" default:"seed.json"`
	// AutoApprove answers every screen interaction affirmatively. Meant for
	// tests and headless setups; it removes the operator from the loop.
	AutoApprove bool `yaml:"auto_approve" description:"Approve all confirmations without an operator (use with caution)" default:"false"`
	// Security settings
	RequireMemoryProtection bool `yaml:"require_memory_protection" description:"Fail startup if memory protection unavailable" default:"false"`
	// WatchSeed locks the device if the seed file changes on disk.
	WatchSeed *bool `yaml:"watch_seed" description:"Lock the device when the seed file changes" default:"true"`
}

// DefaultDeviceConfig returns the default device configuration.
// Relative paths are resolved against the data directory.
func DefaultDeviceConfig() DeviceConfig {
	return DeviceConfig{
		SocketPath: DefaultSocketName,
		SeedPath:   DefaultSeedName,
	}
}

// ShouldWatchSeed reports whether the seed watcher is enabled (default true).
func (c DeviceConfig) ShouldWatchSeed() bool {
	return c.WatchSeed == nil || *c.WatchSeed
}

// ResolvePath resolves a path relative to baseDir if not absolute.
// Returns path unchanged if empty or already absolute.
func ResolvePath(path, baseDir string) string {
	if path == "" || baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// GetDeviceDataDir returns the data directory for htrsignerd.
// It checks the -d flag value first, then the HTRSIGNER_DATA env var.
// Returns empty string if neither is set.
func GetDeviceDataDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("HTRSIGNER_DATA")
}

// RequireDeviceDataDir resolves the device data directory from the flag value
// or HTRSIGNER_DATA environment variable. Exits if neither is set.
func RequireDeviceDataDir(flagValue string) string {
	dir := GetDeviceDataDir(flagValue)
	if dir == "" {
		fmt.Fprintln(os.Stderr, "Error: Data directory not specified")
		fmt.Fprintln(os.Stderr, "Use -d <path> or set HTRSIGNER_DATA environment variable")
		os.Exit(1)
	}
	return dir
}

// LoadDeviceConfig loads configuration from a YAML file in the data directory.
// Config file is expected at <dataDir>/config.yaml.
// Returns default config if the file doesn't exist or can't be read.
func LoadDeviceConfig(dataDir string) DeviceConfig {
	defaults := DefaultDeviceConfig()

	if dataDir == "" {
		return defaults
	}

	path := filepath.Join(dataDir, "config.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		return defaults
	}

	config := defaults
	if err := yaml.Unmarshal(data, &config); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: malformed config file %s: %v (using defaults)\n", path, err)
		return defaults
	}

	if config.SocketPath == "" {
		config.SocketPath = defaults.SocketPath
	}
	if config.SeedPath == "" {
		config.SeedPath = defaults.SeedPath
	}
	return config
}
