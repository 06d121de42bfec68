// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package signtx

import (
	"bytes"
	"fmt"

	"github.com/HathorNetwork/ledger-app-hathor/internal/keys"
)

// VerifyChangeOutput re-derives the key pair at 44'/280'/0'/0/keyIndex and
// checks that its recipient hash matches the output's. It mutates nothing;
// the derived key material is scrubbed on both the match and mismatch paths.
func VerifyChangeOutput(w *keys.Wallet, out DecodedOutput, keyIndex uint32) (bool, error) {
	kp, err := w.Derive(0, keyIndex)
	if err != nil {
		return false, fmt.Errorf("failed to derive change key %d: %w", keyIndex, err)
	}
	defer kp.Zero()

	expected := kp.RecipientHash()
	return bytes.Equal(expected[:], out.RecipientHash[:]), nil
}
