// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
)

func (s *shellState) executeCommand(name string, args []string) error {
	switch name {
	case "version":
		return s.cmdVersion()
	case "address":
		return s.cmdAddress(args)
	case "xpub":
		return s.cmdXPub()
	case "sign":
		return s.cmdSign(args)
	case "connect":
		return s.cmdConnect()
	case "help":
		s.cmdHelp()
		return nil
	case "quit", "exit":
		return errExit
	default:
		return fmt.Errorf("unknown command %q (try 'help')", name)
	}
}

func (s *shellState) cmdHelp() {
	fmt.Println("Commands:")
	fmt.Println("  version               show the device app version")
	fmt.Println("  address <index>       show address for key index on the device screen")
	fmt.Println("  xpub                  fetch the account extended public key (device confirms)")
	fmt.Println("  sign <tx.json>        stream a transaction for review and signing")
	fmt.Println("  connect               reconnect to the device socket")
	fmt.Println("  quit                  leave the shell")
}

func (s *shellState) cmdConnect() error {
	s.client.Close()
	if err := s.client.Dial(); err != nil {
		return fmt.Errorf("cannot reach device at %s: %w", s.socketPath, err)
	}
	appVersion, err := s.client.GetVersion()
	if err != nil {
		return err
	}
	fmt.Printf("Connected to Hathor device %s at %s\n", appVersion, s.socketPath)
	return nil
}

func (s *shellState) cmdVersion() error {
	appVersion, err := s.client.GetVersion()
	if err != nil {
		return err
	}
	fmt.Println("Hathor app " + appVersion)
	return nil
}

func (s *shellState) cmdAddress(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: address <index>")
	}
	index, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid key index %q", args[0])
	}
	fmt.Println("Check the device screen and compare the address...")
	if err := s.client.GetAddress(uint32(index)); err != nil {
		return err
	}
	fmt.Println("Done")
	return nil
}

func (s *shellState) cmdXPub() error {
	fmt.Println("Waiting for device approval...")
	xpub, err := s.client.GetXPub()
	if err != nil {
		return err
	}
	fmt.Printf("Public key:         %s\n", hex.EncodeToString(xpub.PublicKey[:]))
	fmt.Printf("Chain code:         %s\n", hex.EncodeToString(xpub.ChainCode[:]))
	fmt.Printf("Parent fingerprint: %s\n", hex.EncodeToString(xpub.ParentFingerprint[:]))
	return nil
}
