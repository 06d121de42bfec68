// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

// Package signtx implements the streaming transaction-signing protocol: a
// session that receives a transaction as size-limited chunks, decodes it
// incrementally without ever holding the whole payload, verifies change
// outputs against the wallet's own keys, and signs the double-sha256 of the
// payload once the operator has approved the spend.
package signtx

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"hash"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/HathorNetwork/ledger-app-hathor/internal/crypto"
	"github.com/HathorNetwork/ledger-app-hathor/internal/keys"
)

// State of the signing session.
type State int

const (
	// Uninitialized: no signing in progress.
	Uninitialized State = iota

	// ReceivingData: transaction bytes are being streamed in.
	ReceivingData

	// UserApproved: the operator confirmed the spend; only signature and
	// completion requests are allowed now.
	UserApproved
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case ReceivingData:
		return "receiving data"
	case UserApproved:
		return "user approved"
	default:
		return "unknown"
	}
}

// BufferCap bounds the working buffer. Chunks are capped at 255 bytes by the
// transport, so a compacted buffer can never legitimately outgrow this.
const BufferCap = 300

// changePrefixFull is the size of a change declaration: flag byte, output
// index byte, 4-byte key index.
const changePrefixFull = 6

// Session is the device's single signing context. Exactly one exists at a
// time; starting a new transaction implicitly discards the previous one.
// All decoder progress lives here so processing resumes exactly where it
// stopped on the next incoming chunk.
type Session struct {
	state  State
	wallet *keys.Wallet

	// Change-output declaration prefix, streamed like everything else but
	// excluded from the digest.
	prefix     [changePrefixFull]byte
	prefixLen  int
	prefixDone bool

	hasChange      bool
	changeIndex    uint8
	changeKeyIndex uint32

	// Header and element progress.
	headerDone      bool
	txVersion       uint16
	remainingTokens int
	remainingInputs int
	outputsTotal    int
	outputsConsumed int
	reviewed        int
	finished        bool

	// Working buffer: not-yet-decoded bytes, compacted after each element.
	buf []byte

	// Incremental sha256 over the signable payload; doubled lazily on the
	// first signature request.
	digest      hash.Hash
	sighash     [32]byte
	sighashDone bool
}

// NewSession creates an uninitialized session bound to the wallet.
func NewSession(w *keys.Wallet) *Session {
	return &Session{
		wallet: w,
		buf:    make([]byte, 0, BufferCap),
	}
}

// State returns the current session state.
func (s *Session) State() State {
	return s.state
}

// Finished reports whether every declared element has been consumed.
func (s *Session) Finished() bool {
	return s.finished
}

// HasChange reports whether a change output was declared.
func (s *Session) HasChange() bool {
	return s.hasChange
}

// NonChangeTotal is the number of outputs the operator will review.
// Only meaningful once the header has been decoded.
func (s *Session) NonChangeTotal() int {
	if s.hasChange {
		return s.outputsTotal - 1
	}
	return s.outputsTotal
}

// Reset zeroes every buffer and returns the session to Uninitialized. Called
// on terminal errors, operator rejection, completion and transport resets.
func (s *Session) Reset() {
	crypto.ZeroBytes(s.buf[:cap(s.buf)])
	crypto.ZeroBytes(s.prefix[:])
	crypto.ZeroBytes(s.sighash[:])
	*s = Session{
		wallet: s.wallet,
		buf:    s.buf[:0],
	}
}

// Feed accepts one data-phase chunk. The first bytes of a new session form
// the change-output declaration; everything after it belongs to the signable
// payload and is routed to both the digest and the working buffer, in
// arrival order, independent of how the payload is chunked.
func (s *Session) Feed(chunk []byte) error {
	switch s.state {
	case UserApproved:
		return ErrDataAfterApproval
	case Uninitialized:
		s.Reset()
		s.state = ReceivingData
		s.digest = sha256.New()
	}

	data, err := s.consumePrefix(chunk)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	if len(s.buf)+len(data) > BufferCap {
		return ErrBufferOverflow
	}
	s.digest.Write(data)
	s.buf = append(s.buf, data...)
	return nil
}

// consumePrefix takes change-declaration bytes off the front of the chunk
// until the declaration is complete, returning the remainder. A declaration
// is 1 byte when the flag is zero, 6 bytes otherwise.
func (s *Session) consumePrefix(chunk []byte) ([]byte, error) {
	for !s.prefixDone && len(chunk) > 0 {
		s.prefix[s.prefixLen] = chunk[0]
		s.prefixLen++
		chunk = chunk[1:]

		if s.prefixLen == 1 && s.prefix[0] == 0 {
			s.prefixDone = true
			break
		}
		if s.prefixLen == changePrefixFull {
			s.hasChange = true
			s.changeIndex = s.prefix[1]
			s.changeKeyIndex = binary.BigEndian.Uint32(s.prefix[2:6])
			s.prefixDone = true
		}
	}
	return chunk, nil
}

// consume drops n decoded bytes off the front of the working buffer,
// compacting it in place.
func (s *Session) consume(n int) {
	kept := copy(s.buf, s.buf[n:])
	s.buf = s.buf[:kept]
}

// Approve marks the transaction as confirmed by the operator. It is only
// legal once decoding has finished.
func (s *Session) Approve() error {
	if s.state != ReceivingData || !s.finished {
		return fmt.Errorf("cannot approve: %s, finished=%v", s.state, s.finished)
	}
	s.state = UserApproved
	return nil
}

// Sighash finalizes the digest on first use: the value signed is the sha256
// of the sha256 of the entire signable payload (version, counts, tokens,
// inputs and outputs; the change declaration prefix is excluded).
func (s *Session) Sighash() [32]byte {
	if !s.sighashDone {
		first := s.digest.Sum(nil)
		s.sighash = sha256.Sum256(first)
		s.sighashDone = true
	}
	return s.sighash
}

// Sign derives the key at 44'/280'/0'/0/keyIndex, signs the finalized double
// digest deterministically (RFC6979) and returns the DER-encoded signature.
// The derived key material is scrubbed before returning on every path.
// No derivation happens unless the operator has approved.
func (s *Session) Sign(keyIndex uint32) ([]byte, error) {
	if s.state != UserApproved {
		return nil, ErrNotApproved
	}

	digest := s.Sighash()

	kp, err := s.wallet.Derive(0, keyIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key %d: %w", keyIndex, err)
	}
	defer kp.Zero()

	sig := ecdsa.Sign(kp.PrivKey(), digest[:])
	return sig.Serialize(), nil
}
