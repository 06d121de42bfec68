// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

// Package version provides build version information for the signer binaries.
// The app version is also what GET_VERSION reports over the wire, so the three
// numeric components must stay single digits.
package version

import (
	"fmt"
	"runtime"
)

// App version components reported by the GET_VERSION command.
// The wire format is "HTR" followed by these three bytes.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// These variables are set at build time via -ldflags.
var (
	// GitCommit is the git commit hash (short form)
	GitCommit = "unknown"

	// BuildTime is the build timestamp in RFC3339 format
	BuildTime = "unknown"
)

// AppVersion returns the semantic app version, e.g. "1.0.0".
func AppVersion() string {
	return fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)
}

// String returns a formatted version string suitable for --version output.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s, %s/%s)",
		AppVersion(), GitCommit, BuildTime, runtime.GOOS, runtime.GOARCH)
}
