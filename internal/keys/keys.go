// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

// Package keys derives the device's signing keys from its BIP32 root seed.
//
// Every key lives under the fixed prefix 44'/280'/0' (280 is Hathor's BIP44
// coin type). The wallet keeps only the account-level extended key in memory;
// leaf keys are derived on demand and must be scrubbed by the caller as soon
// as they have served their purpose.
package keys

import (
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/HathorNetwork/ledger-app-hathor/internal/hathor"
)

// accountPath is the hardened BIP44 prefix 44'/280'/0'.
var accountPath = [3]uint32{
	hdkeychain.HardenedKeyStart + 44,
	hdkeychain.HardenedKeyStart + 280,
	hdkeychain.HardenedKeyStart + 0,
}

// Wallet holds the account-level extended private key.
type Wallet struct {
	account *hdkeychain.ExtendedKey
}

// NewWallet derives the account key 44'/280'/0' from a root seed.
// The seed remains owned by the caller.
func NewWallet(seed []byte) (*Wallet, error) {
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("failed to build master key: %w", err)
	}
	for _, idx := range accountPath {
		next, err := key.Derive(idx)
		key.Zero()
		if err != nil {
			return nil, fmt.Errorf("failed to derive account key: %w", err)
		}
		key = next
	}
	return &Wallet{account: key}, nil
}

// Close scrubs the account key. The wallet is unusable afterwards.
func (w *Wallet) Close() {
	if w.account != nil {
		w.account.Zero()
		w.account = nil
	}
}

// KeyPair is a leaf signing key. Callers must invoke Zero before letting it
// go out of scope.
type KeyPair struct {
	priv *btcec.PrivateKey
	pub  *btcec.PublicKey
}

// Derive produces the key pair at 44'/280'/0'/change/index.
func (w *Wallet) Derive(change, index uint32) (*KeyPair, error) {
	if w.account == nil {
		return nil, fmt.Errorf("wallet is closed")
	}
	branch, err := w.account.Derive(change)
	if err != nil {
		return nil, fmt.Errorf("failed to derive change branch %d: %w", change, err)
	}
	defer branch.Zero()

	leaf, err := branch.Derive(index)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key %d: %w", index, err)
	}
	defer leaf.Zero()

	priv, err := leaf.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("failed to extract private key: %w", err)
	}
	return &KeyPair{priv: priv, pub: priv.PubKey()}, nil
}

// PrivKey exposes the private key for signing.
func (k *KeyPair) PrivKey() *btcec.PrivateKey {
	return k.priv
}

// PubKey exposes the public key.
func (k *KeyPair) PubKey() *btcec.PublicKey {
	return k.pub
}

// RecipientHash computes hash160 of the compressed public key, the value a
// P2PKH script commits to.
func (k *KeyPair) RecipientHash() [hathor.RecipientHashLen]byte {
	return hathor.Hash160(k.pub.SerializeCompressed())
}

// Zero scrubs the private key material.
func (k *KeyPair) Zero() {
	if k.priv != nil {
		k.priv.Zero()
		k.priv = nil
	}
	k.pub = nil
}

// XPub carries everything the host needs to rebuild the wallet's extended
// public key for the external branch 44'/280'/0'/0.
type XPub struct {
	PublicKey         [65]byte // uncompressed
	ChainCode         [32]byte
	ParentFingerprint [4]byte
}

// XPub derives the external-branch extended public key components.
func (w *Wallet) XPub() (*XPub, error) {
	if w.account == nil {
		return nil, fmt.Errorf("wallet is closed")
	}
	branch, err := w.account.Derive(0)
	if err != nil {
		return nil, fmt.Errorf("failed to derive external branch: %w", err)
	}
	defer branch.Zero()

	pub, err := branch.ECPubKey()
	if err != nil {
		return nil, fmt.Errorf("failed to extract public key: %w", err)
	}

	var out XPub
	copy(out.PublicKey[:], pub.SerializeUncompressed())
	copy(out.ChainCode[:], branch.ChainCode())
	binary.BigEndian.PutUint32(out.ParentFingerprint[:], branch.ParentFingerprint())
	return &out, nil
}
