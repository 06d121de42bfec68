// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package signtx

import (
	"encoding/binary"

	"github.com/HathorNetwork/ledger-app-hathor/internal/hathor"
)

// Element sizes in the canonical transaction serialization.
const (
	headerLen = 5  // 2-byte version + token, input and output counts
	tokenLen  = 32 // token identifiers are currently uninterpreted
	inputLen  = 35 // 32-byte reference + 1-byte position + 2-byte data length
)

// Status is the outcome of a single decode step.
type Status int

const (
	// StatusPartial: the working buffer ends mid-element; feed more bytes and
	// call Next again from the same position.
	StatusPartial Status = iota

	// StatusReady: a non-change output was decoded and awaits operator review.
	StatusReady

	// StatusFinished: every declared element was consumed and the buffer is
	// empty.
	StatusFinished
)

// DecodedOutput is the single-slot result of an output decode step. It is
// overwritten by the next step and never archived.
type DecodedOutput struct {
	Index         uint8
	Value         uint64
	RecipientHash [hathor.RecipientHashLen]byte
}

// Result is what one decode step yields. Position is the 1-based position of
// Output among the non-change outputs; it is only meaningful for StatusReady.
type Result struct {
	Status   Status
	Output   DecodedOutput
	Position int
}

// Next consumes as much of the working buffer as it can, yielding the next
// reviewable output, a request for more bytes, or completion. Change outputs
// are verified and skipped inside the loop so the caller never sees them.
// All progress lives in the Session; the decoder is resumable across any
// number of host round-trips.
func (s *Session) Next() (Result, error) {
	if s.state != ReceivingData {
		return Result{}, ErrNotReceiving
	}

	for {
		switch {
		case !s.headerDone:
			if len(s.buf) < headerLen {
				return Result{Status: StatusPartial}, nil
			}
			s.txVersion = binary.BigEndian.Uint16(s.buf[:2])
			s.remainingTokens = int(s.buf[2])
			s.remainingInputs = int(s.buf[3])
			s.outputsTotal = int(s.buf[4])
			s.consume(headerLen)
			s.headerDone = true
			if s.hasChange && int(s.changeIndex) >= s.outputsTotal {
				return Result{}, ErrChangeIndexRange
			}

		case s.remainingTokens > 0:
			if len(s.buf) < tokenLen {
				return Result{Status: StatusPartial}, nil
			}
			s.consume(tokenLen)
			s.remainingTokens--

		case s.remainingInputs > 0:
			if len(s.buf) < inputLen {
				return Result{Status: StatusPartial}, nil
			}
			// The last two bytes declare the input's embedded data length,
			// which must be zero in the signable payload.
			if s.buf[33] != 0 || s.buf[34] != 0 {
				return Result{}, ErrNonEmptyInputData
			}
			s.consume(inputLen)
			s.remainingInputs--

		case s.outputsConsumed < s.outputsTotal:
			out, n, err := parseOutput(s.buf)
			if err == errNeedMore {
				return Result{Status: StatusPartial}, nil
			}
			if err != nil {
				return Result{}, err
			}
			out.Index = uint8(s.outputsConsumed)
			s.consume(n)
			s.outputsConsumed++

			if s.hasChange && out.Index == s.changeIndex {
				ok, err := VerifyChangeOutput(s.wallet, out, s.changeKeyIndex)
				if err != nil {
					return Result{}, err
				}
				if !ok {
					return Result{}, ErrChangeMismatch
				}
				continue // verified change is never surfaced for review
			}

			s.reviewed++
			return Result{Status: StatusReady, Output: out, Position: s.reviewed}, nil

		default:
			if len(s.buf) != 0 {
				return Result{}, ErrTrailingBytes
			}
			s.finished = true
			return Result{Status: StatusFinished}, nil
		}
	}
}

// parseOutput decodes one output from the front of buf, returning the number
// of bytes it spans. The value field is 4 bytes unless the top bit of the
// first byte is set, in which case it is the two's-complement negation of an
// 8-byte big-endian integer.
func parseOutput(buf []byte) (DecodedOutput, int, error) {
	var out DecodedOutput
	if len(buf) < 1 {
		return out, 0, errNeedMore
	}

	off := 0
	if buf[0]&0x80 != 0 {
		if len(buf) < 8+3 { // value + token data + script length
			return out, 0, errNeedMore
		}
		out.Value = -binary.BigEndian.Uint64(buf[:8])
		off = 8
	} else {
		if len(buf) < 4+3 {
			return out, 0, errNeedMore
		}
		out.Value = uint64(binary.BigEndian.Uint32(buf[:4]))
		off = 4
	}

	off++ // token data byte, not interpreted
	scriptLen := int(binary.BigEndian.Uint16(buf[off : off+2]))
	off += 2

	if len(buf) < off+scriptLen {
		return out, 0, errNeedMore
	}
	hash, err := hathor.ParseP2PKHScript(buf[off : off+scriptLen])
	if err != nil {
		return out, 0, err
	}
	out.RecipientHash = hash
	return out, off + scriptLen, nil
}
