// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package transport

import "errors"

// Sentinel errors for device connection failures.
var (
	// ErrNotConnected is returned when an exchange is attempted before Dial.
	ErrNotConnected = errors.New("not connected to the device")

	// ErrWrongApp is returned when the device does not identify as the
	// Hathor app.
	ErrWrongApp = errors.New("connected device is not running the Hathor app")
)
