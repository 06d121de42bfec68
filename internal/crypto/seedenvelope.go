// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

// Package crypto implements the at-rest protection of the device's root seed
// and the zeroing helpers used for in-flight key material.
//
// The seed is stored as a JSON envelope: an Argon2id-derived key encrypts the
// raw seed with AES-256-GCM. The passphrase is required once at device start;
// the decrypted seed lives only in locked memory after that.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/argon2"
)

const (
	// Argon2id parameters (OWASP recommended)
	argon2Time    = 1         // iterations
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4         // parallelism
	argon2KeyLen  = 32        // AES-256

	seedSaltLen = 32
)

// SeedEnvelope stores the encrypted root seed with its KDF metadata.
type SeedEnvelope struct {
	EnvelopeVersion int    `json:"envelope_version"` // Encryption envelope format version
	Salt            string `json:"salt"`             // Base64-encoded Argon2id salt
	Nonce           string `json:"nonce"`            // Base64-encoded nonce for AES-GCM
	Ciphertext      string `json:"ciphertext"`       // Base64-encoded encrypted seed
	Created         string `json:"created"`
}

// deriveEnvelopeKey derives the AES key from passphrase and salt.
// Caller is responsible for zeroing the returned key when done.
func deriveEnvelopeKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
}

// SealSeed encrypts the seed under the passphrase and returns the JSON
// envelope bytes. The caller keeps ownership of both inputs and should zero
// them when no longer needed.
func SealSeed(seed, passphrase []byte) ([]byte, error) {
	salt := make([]byte, seedSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key := deriveEnvelopeKey(passphrase, salt)
	defer ZeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, seed, nil)

	envelope := SeedEnvelope{
		EnvelopeVersion: 1,
		Salt:            base64.StdEncoding.EncodeToString(salt),
		Nonce:           base64.StdEncoding.EncodeToString(nonce),
		Ciphertext:      base64.StdEncoding.EncodeToString(ciphertext),
		Created:         time.Now().UTC().Format(time.RFC3339),
	}

	return json.MarshalIndent(envelope, "", "  ")
}

// OpenSeed decrypts a seed envelope with the passphrase and returns the raw
// seed. The caller owns the returned bytes and must zero them after use.
func OpenSeed(envelopeJSON, passphrase []byte) ([]byte, error) {
	var envelope SeedEnvelope
	if err := json.Unmarshal(envelopeJSON, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse seed envelope: %w", err)
	}
	if envelope.EnvelopeVersion != 1 {
		return nil, fmt.Errorf("unsupported envelope_version %d", envelope.EnvelopeVersion)
	}

	salt, err := base64.StdEncoding.DecodeString(envelope.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(envelope.Nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to decode nonce: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(envelope.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	key := deriveEnvelopeKey(passphrase, salt)
	defer ZeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	seed, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt seed: %w", err)
	}
	return seed, nil
}

// WriteSeedFile seals the seed and writes the envelope with restrictive
// permissions.
func WriteSeedFile(path string, seed, passphrase []byte) error {
	data, err := SealSeed(seed, passphrase)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write seed envelope: %w", err)
	}
	return nil
}

// ReadSeedFile reads and opens a seed envelope file.
func ReadSeedFile(path string, passphrase []byte) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed envelope: %w", err)
	}
	return OpenSeed(data, passphrase)
}
