// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package main

import (
	"bufio"
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/HathorNetwork/ledger-app-hathor/internal/crypto"
)

// seedLen is the entropy written into a fresh envelope. BIP-32 accepts
// 16 to 64 bytes of seed material.
const seedLen = 32

// obtainPassphrase reads the envelope passphrase without echo. The
// HTRSIGNER_TEST_PASSPHRASE variable short-circuits the prompt for tests and
// headless setups. Caller zeroes the returned bytes.
func obtainPassphrase(prompt string, confirm bool) ([]byte, error) {
	if testPass := os.Getenv("HTRSIGNER_TEST_PASSPHRASE"); testPass != "" {
		return []byte(testPass), nil
	}

	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("cannot read passphrase: %w", err)
	}
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("empty passphrase")
	}

	if confirm {
		fmt.Fprint(os.Stderr, "Confirm passphrase: ")
		again, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			crypto.ZeroBytes(passphrase)
			return nil, fmt.Errorf("cannot read passphrase: %w", err)
		}
		match := bytes.Equal(passphrase, again)
		crypto.ZeroBytes(again)
		if !match {
			crypto.ZeroBytes(passphrase)
			return nil, fmt.Errorf("passphrases do not match")
		}
	}
	return passphrase, nil
}

// initSeedFile creates a new encrypted seed envelope. The operator may paste
// existing seed material as hex, or leave the prompt blank to generate fresh
// entropy.
func initSeedFile(seedPath string) error {
	if _, err := os.Stat(seedPath); err == nil {
		return fmt.Errorf("seed already exists at %s (refusing to overwrite)", seedPath)
	}

	fmt.Fprintln(os.Stderr, "Seed hex (blank to generate):")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("cannot read seed: %w", err)
	}
	line = strings.TrimSpace(line)

	var seed []byte
	if line == "" {
		seed = make([]byte, seedLen)
		if _, err := rand.Read(seed); err != nil {
			return fmt.Errorf("cannot generate seed: %w", err)
		}
	} else {
		seed, err = hex.DecodeString(line)
		if err != nil {
			return fmt.Errorf("invalid seed hex: %w", err)
		}
		if len(seed) < 16 || len(seed) > 64 {
			crypto.ZeroBytes(seed)
			return fmt.Errorf("seed must be 16 to 64 bytes, got %d", len(seed))
		}
	}
	defer crypto.ZeroBytes(seed)

	passphrase, err := obtainPassphrase("New seed passphrase: ", true)
	if err != nil {
		return err
	}
	defer crypto.ZeroBytes(passphrase)

	if err := crypto.WriteSeedFile(seedPath, seed, passphrase); err != nil {
		return fmt.Errorf("cannot write seed envelope: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Seed envelope written to %s\n", seedPath)
	return nil
}
