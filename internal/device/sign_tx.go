// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package device

import (
	"encoding/binary"

	"github.com/HathorNetwork/ledger-app-hathor/internal/apdu"
	"github.com/HathorNetwork/ledger-app-hathor/internal/hathor"
	"github.com/HathorNetwork/ledger-app-hathor/internal/signtx"
)

// handleSignTx drives the three sub-phases of the signing protocol.
func (d *Device) handleSignTx(p1 byte, data []byte) apdu.Response {
	switch p1 {
	case apdu.SignPhaseData:
		return d.signTxData(data)
	case apdu.SignPhaseSignature:
		return d.signTxSignature(data)
	case apdu.SignPhaseDone:
		// All signatures delivered; valid even when none were requested.
		d.session.Reset()
		d.display.Idle()
		return apdu.Response{Status: apdu.SWOK}
	default:
		return apdu.Response{Status: apdu.SWInvalidParam}
	}
}

// signTxData absorbs one chunk of transaction bytes, then runs the decoder
// until it needs more data, finishes, or fails. Each decoded non-change
// output pauses here while the operator reviews it; the response to the host
// is only written after the operator has advanced past everything this chunk
// completed.
func (d *Device) signTxData(data []byte) apdu.Response {
	if err := d.session.Feed(data); err != nil {
		d.log.Warn("rejecting transaction data", "err", err)
		return apdu.Response{Status: apdu.SWInvalidParam}
	}

	for {
		res, err := d.session.Next()
		if err != nil {
			d.log.Warn("transaction decode failed", "err", err)
			return apdu.Response{Status: apdu.SWInvalidParam}
		}

		switch res.Status {
		case signtx.StatusPartial:
			// Mid-stream continuation: ask the host for more bytes while
			// preserving all session state.
			return apdu.Response{Status: apdu.SWOK}

		case signtx.StatusReady:
			addr := hathor.HashToAddress(res.Output.RecipientHash)
			value := hathor.FormatValue(res.Output.Value)
			if err := d.display.ReviewOutput(res.Position, d.session.NonChangeTotal(), addr, value); err != nil {
				return apdu.Response{Status: apdu.SWDeveloperErr}
			}

		case signtx.StatusFinished:
			ok, err := d.display.ConfirmSend()
			if err != nil {
				return apdu.Response{Status: apdu.SWDeveloperErr}
			}
			if !ok {
				d.log.Info("transaction rejected by operator")
				return apdu.Response{Status: apdu.SWUserRejected}
			}
			if err := d.session.Approve(); err != nil {
				d.log.Error("approval in unexpected state", "err", err)
				return apdu.Response{Status: apdu.SWDeveloperErr}
			}
			d.display.Processing()
			return apdu.Response{Status: apdu.SWOK}
		}
	}
}

// signTxSignature returns one signature for the approved transaction. The
// approval gate comes first: before it, no key derivation happens at all.
func (d *Device) signTxSignature(data []byte) apdu.Response {
	if d.session.State() != signtx.UserApproved {
		return apdu.Response{Status: apdu.SWDeveloperErr}
	}
	if len(data) < 4 {
		return apdu.Response{Status: apdu.SWInvalidParam}
	}
	keyIndex := binary.BigEndian.Uint32(data[:4])

	sig, err := d.session.Sign(keyIndex)
	if err != nil {
		d.log.Error("signing failed", "key_index", keyIndex, "err", err)
		return apdu.Response{Status: apdu.SWDeveloperErr}
	}
	return apdu.Response{Data: sig, Status: apdu.SWOK}
}
