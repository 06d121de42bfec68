// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultDeviceConfig(t *testing.T) {
	config := DefaultDeviceConfig()
	if config.SocketPath != DefaultSocketName {
		t.Errorf("SocketPath = %q", config.SocketPath)
	}
	if config.SeedPath != DefaultSeedName {
		t.Errorf("SeedPath = %q", config.SeedPath)
	}
	if config.AutoApprove {
		t.Error("AutoApprove defaults to true")
	}
	if !config.ShouldWatchSeed() {
		t.Error("seed watching disabled by default")
	}
}

func TestLoadDeviceConfig(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("socket_path: /tmp/custom.sock\nauto_approve: true\nwatch_seed: false\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	config := LoadDeviceConfig(dir)
	if config.SocketPath != "/tmp/custom.sock" {
		t.Errorf("SocketPath = %q", config.SocketPath)
	}
	// Unset fields keep their defaults.
	if config.SeedPath != DefaultSeedName {
		t.Errorf("SeedPath = %q", config.SeedPath)
	}
	if !config.AutoApprove {
		t.Error("AutoApprove not loaded")
	}
	if config.ShouldWatchSeed() {
		t.Error("watch_seed: false not honored")
	}
}

func TestLoadDeviceConfigMissingFile(t *testing.T) {
	config := LoadDeviceConfig(t.TempDir())
	if config.SocketPath != DefaultSocketName || config.SeedPath != DefaultSeedName {
		t.Errorf("missing file did not produce defaults: %+v", config)
	}
}

func TestLoadDeviceConfigMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{not yaml"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	config := LoadDeviceConfig(dir)
	if config.SocketPath != DefaultSocketName {
		t.Errorf("malformed file did not fall back to defaults: %+v", config)
	}
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		baseDir  string
		expected string
	}{
		{name: "relative", path: "htrsigner.sock", baseDir: "/data", expected: "/data/htrsigner.sock"},
		{name: "absolute", path: "/tmp/s.sock", baseDir: "/data", expected: "/tmp/s.sock"},
		{name: "empty path", path: "", baseDir: "/data", expected: ""},
		{name: "empty base", path: "rel", baseDir: "", expected: "rel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolvePath(tt.path, tt.baseDir); got != tt.expected {
				t.Errorf("ResolvePath(%q, %q) = %q, want %q", tt.path, tt.baseDir, got, tt.expected)
			}
		})
	}
}

func TestGetDeviceDataDir(t *testing.T) {
	t.Setenv("HTRSIGNER_DATA", "/from/env")

	if got := GetDeviceDataDir("/from/flag"); got != "/from/flag" {
		t.Errorf("flag value not preferred: %q", got)
	}
	if got := GetDeviceDataDir(""); got != "/from/env" {
		t.Errorf("env fallback = %q", got)
	}

	t.Setenv("HTRSIGNER_DATA", "")
	if got := GetDeviceDataDir(""); got != "" {
		t.Errorf("unset lookup = %q", got)
	}
}
