// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

// Package hathor implements Hathor coin primitives shared by the device and
// the host tooling: the double-sha256 and hash160 digests, the P2PKH script
// template, base58 addresses and the on-screen value format.
package hathor

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"golang.org/x/crypto/ripemd160"
)

// P2PKHVersionByte prefixes mainnet pay-to-key-hash addresses.
const P2PKHVersionByte = 0x28

// RecipientHashLen is the length of a hash160 recipient hash.
const RecipientHashLen = 20

// ScriptLen is the exact length of the P2PKH script template.
const ScriptLen = 25

// ErrNotP2PKH is returned for any output script that does not match the
// 5-opcode pay-to-key-hash template.
var ErrNotP2PKH = errors.New("script is not P2PKH")

// Sha256d computes the double sha256 of the input.
func Sha256d(in []byte) [32]byte {
	first := sha256.Sum256(in)
	return sha256.Sum256(first[:])
}

// Hash160 computes ripemd160(sha256(in)), the recipient hash of a compressed
// public key.
func Hash160(in []byte) [RecipientHashLen]byte {
	first := sha256.Sum256(in)
	h := ripemd160.New()
	h.Write(first[:])
	var out [RecipientHashLen]byte
	copy(out[:], h.Sum(nil))
	return out
}

// P2PKHScript assembles the script template for a recipient hash:
//
//	[OP_DUP, OP_HASH160, 20, <hash>, OP_EQUALVERIFY, OP_CHECKSIG]
func P2PKHScript(hash [RecipientHashLen]byte) []byte {
	script := make([]byte, 0, ScriptLen)
	script = append(script, 0x76, 0xA9, RecipientHashLen)
	script = append(script, hash[:]...)
	return append(script, 0x88, 0xAC)
}

// ParseP2PKHScript validates the script against the template and extracts the
// recipient hash. Any other script shape is rejected.
func ParseP2PKHScript(script []byte) ([RecipientHashLen]byte, error) {
	var hash [RecipientHashLen]byte
	if len(script) != ScriptLen {
		return hash, ErrNotP2PKH
	}
	if script[0] != 0x76 || script[1] != 0xA9 || script[2] != RecipientHashLen ||
		script[23] != 0x88 || script[24] != 0xAC {
		return hash, ErrNotP2PKH
	}
	copy(hash[:], script[3:23])
	return hash, nil
}

// HashToAddress encodes a recipient hash as a base58 address: version byte,
// hash, then the first 4 bytes of the sha256d checksum.
func HashToAddress(hash [RecipientHashLen]byte) string {
	return base58.CheckEncode(hash[:], P2PKHVersionByte)
}

// DecodeAddress decodes a base58 address back into its recipient hash.
func DecodeAddress(addr string) ([RecipientHashLen]byte, error) {
	var hash [RecipientHashLen]byte
	payload, version, err := base58.CheckDecode(addr)
	if err != nil {
		return hash, fmt.Errorf("invalid address %q: %w", addr, err)
	}
	if version != P2PKHVersionByte {
		return hash, fmt.Errorf("invalid address %q: unexpected version byte 0x%02X", addr, version)
	}
	if len(payload) != RecipientHashLen {
		return hash, fmt.Errorf("invalid address %q: payload is %d bytes", addr, len(payload))
	}
	copy(hash[:], payload)
	return hash, nil
}
