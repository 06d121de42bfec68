// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package crypto

import (
	"crypto/subtle"
	"runtime"
)

// ZeroBytes securely overwrites a byte slice with zeros.
// Uses constant-time operation to prevent compiler optimization.
func ZeroBytes(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
	runtime.KeepAlive(b)
}
