// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package transport

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/HathorNetwork/ledger-app-hathor/internal/device"
	"github.com/HathorNetwork/ledger-app-hathor/internal/hathor"
	"github.com/HathorNetwork/ledger-app-hathor/internal/keys"
)

// startTestDevice runs a real device on a Unix socket with every screen
// interaction auto-approved, and connects a client to it.
func startTestDevice(t *testing.T) (*Client, *keys.Wallet) {
	t.Helper()

	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(200 - i)
	}
	w, err := keys.NewWallet(seed)
	if err != nil {
		t.Fatalf("NewWallet: %v", err)
	}
	t.Cleanup(w.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	dev := device.New(w, &device.AutoApproveDisplay{Log: log}, log)

	socketPath := filepath.Join(t.TempDir(), "dev.sock")
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() {
		if err := dev.ListenAndServe(ctx, socketPath); err != nil {
			t.Errorf("ListenAndServe: %v", err)
		}
	}()

	client := NewClient(socketPath)
	deadline := time.Now().Add(3 * time.Second)
	for {
		if err := client.Dial(); err == nil {
			break
		} else if time.Now().After(deadline) {
			t.Fatalf("device never came up: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Cleanup(client.Close)
	return client, w
}

func TestGetVersionOverSocket(t *testing.T) {
	client, _ := startTestDevice(t)

	appVersion, err := client.GetVersion()
	if err != nil {
		t.Fatalf("GetVersion: %v", err)
	}
	if appVersion == "" {
		t.Error("empty version string")
	}
}

func TestGetAddressOverSocket(t *testing.T) {
	client, _ := startTestDevice(t)

	if err := client.GetAddress(12); err != nil {
		t.Fatalf("GetAddress: %v", err)
	}
}

func TestGetXPubOverSocket(t *testing.T) {
	client, w := startTestDevice(t)

	xpub, err := client.GetXPub()
	if err != nil {
		t.Fatalf("GetXPub: %v", err)
	}

	expected, err := w.XPub()
	if err != nil {
		t.Fatalf("XPub: %v", err)
	}
	if xpub.PublicKey != expected.PublicKey {
		t.Error("public key mismatch")
	}
	if xpub.ChainCode != expected.ChainCode {
		t.Error("chain code mismatch")
	}
	if xpub.ParentFingerprint != expected.ParentFingerprint {
		t.Error("parent fingerprint mismatch")
	}
}

func TestSignTxOverSocket(t *testing.T) {
	client, w := startTestDevice(t)

	var foreign [hathor.RecipientHashLen]byte
	for i := range foreign {
		foreign[i] = 0x31
	}
	var txid [32]byte
	txid[0] = 0x01
	tx := &hathor.Transaction{
		Version: hathor.TxVersion,
		Inputs: []hathor.Input{
			{TxID: txid, Index: 0},
			{TxID: txid, Index: 1},
		},
		Outputs: []hathor.Output{
			{Value: 123456, Script: hathor.P2PKHScript(foreign)},
		},
	}
	data, err := hathor.SignRequestData(tx, nil)
	if err != nil {
		t.Fatalf("SignRequestData: %v", err)
	}

	keyIndexes := []uint32{2, 8}
	sigs, err := client.SignTx(data, keyIndexes)
	if err != nil {
		t.Fatalf("SignTx: %v", err)
	}
	if len(sigs) != len(keyIndexes) {
		t.Fatalf("%d signatures, want %d", len(sigs), len(keyIndexes))
	}

	sighash := hathor.Sha256d(data[1:])
	for i, raw := range sigs {
		sig, err := ecdsa.ParseDERSignature(raw)
		if err != nil {
			t.Fatalf("signature %d: %v", i, err)
		}
		kp, err := w.Derive(0, keyIndexes[i])
		if err != nil {
			t.Fatalf("Derive: %v", err)
		}
		ok := sig.Verify(sighash[:], kp.PubKey())
		kp.Zero()
		if !ok {
			t.Errorf("signature %d does not verify", i)
		}
	}
}

func TestExchangeWithoutConnection(t *testing.T) {
	client := NewClient(filepath.Join(t.TempDir(), "absent.sock"))
	if _, err := client.GetVersion(); err == nil {
		t.Error("GetVersion succeeded without a connection")
	}
}
