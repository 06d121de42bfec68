// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package hathor

import (
	"encoding/binary"
	"fmt"
)

// TxVersion is the transaction format version the device accepts.
const TxVersion = 1

// Input spends a previous output. The sighash-all payload carries inputs
// with empty embedded data, so only the reference and position are encoded.
type Input struct {
	TxID  [32]byte
	Index byte
}

// Output sends value to a P2PKH recipient.
type Output struct {
	Value     uint64
	TokenData byte
	Script    []byte
}

// NewP2PKHOutput builds an output paying value to the given base58 address.
func NewP2PKHOutput(value uint64, addr string) (Output, error) {
	hash, err := DecodeAddress(addr)
	if err != nil {
		return Output{}, err
	}
	return Output{Value: value, Script: P2PKHScript(hash)}, nil
}

// ChangeInfo declares which output returns funds to the wallet and under
// which key index the device should verify it.
type ChangeInfo struct {
	OutputIndex byte
	KeyIndex    uint32
}

// Transaction is the host-side representation of a spend to be signed.
type Transaction struct {
	Version uint16
	Tokens  [][32]byte
	Inputs  []Input
	Outputs []Output
}

// appendValue encodes an output value. Values that fit in 4 bytes with a
// clear top bit use the short form; larger values use the 8-byte form whose
// bytes are the two's-complement negation of the value, which guarantees a
// set top bit for the decoder to key on.
func appendValue(buf []byte, value uint64) []byte {
	if value <= 0x7FFFFFFF {
		return binary.BigEndian.AppendUint32(buf, uint32(value))
	}
	return binary.BigEndian.AppendUint64(buf, -value)
}

// Serialize produces the canonical sighash-all byte representation:
// version, the three element counts, then tokens, inputs and outputs in
// order. This is exactly the payload the device digests and signs.
func (tx *Transaction) Serialize() ([]byte, error) {
	if len(tx.Tokens) > 0xFF || len(tx.Inputs) > 0xFF || len(tx.Outputs) > 0xFF {
		return nil, fmt.Errorf("element count exceeds a single byte")
	}

	buf := binary.BigEndian.AppendUint16(nil, tx.Version)
	buf = append(buf, byte(len(tx.Tokens)), byte(len(tx.Inputs)), byte(len(tx.Outputs)))

	for _, tok := range tx.Tokens {
		buf = append(buf, tok[:]...)
	}
	for _, in := range tx.Inputs {
		buf = append(buf, in.TxID[:]...)
		buf = append(buf, in.Index)
		buf = append(buf, 0, 0) // input data must be empty in the signed payload
	}
	for _, out := range tx.Outputs {
		if len(out.Script) > 0xFFFF {
			return nil, fmt.Errorf("output script of %d bytes too long", len(out.Script))
		}
		buf = appendValue(buf, out.Value)
		buf = append(buf, out.TokenData)
		buf = binary.BigEndian.AppendUint16(buf, uint16(len(out.Script)))
		buf = append(buf, out.Script...)
	}
	return buf, nil
}

// SignRequestData assembles the full data-phase stream for a transaction:
// the change-output declaration prefix followed by the serialized payload.
// A nil change yields the single 0x00 "no change" byte.
func SignRequestData(tx *Transaction, change *ChangeInfo) ([]byte, error) {
	payload, err := tx.Serialize()
	if err != nil {
		return nil, err
	}
	if change == nil {
		return append([]byte{0x00}, payload...), nil
	}
	prefix := []byte{0x01, change.OutputIndex}
	prefix = binary.BigEndian.AppendUint32(prefix, change.KeyIndex)
	return append(prefix, payload...), nil
}
