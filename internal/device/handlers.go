// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package device

import (
	"encoding/binary"

	"github.com/HathorNetwork/ledger-app-hathor/internal/apdu"
	"github.com/HathorNetwork/ledger-app-hathor/internal/hathor"
	"github.com/HathorNetwork/ledger-app-hathor/internal/version"
)

// handleGetVersion unconditionally reports the app identity. The "HTR"
// prefix lets the wallet confirm it is talking to this app and not some
// other one answering on the same transport.
func (d *Device) handleGetVersion() apdu.Response {
	return apdu.Response{
		Data:   []byte{'H', 'T', 'R', version.Major, version.Minor, version.Patch},
		Status: apdu.SWOK,
	}
}

// handleGetAddress derives the receiving address for a key index and shows
// it on the comparison screen. The address is only displayed, never
// transmitted; the response carries just the status.
func (d *Device) handleGetAddress(data []byte) apdu.Response {
	if len(data) < 4 {
		return apdu.Response{Status: apdu.SWInvalidParam}
	}
	keyIndex := binary.BigEndian.Uint32(data[:4])

	kp, err := d.wallet.Derive(0, keyIndex)
	if err != nil {
		d.log.Error("address derivation failed", "key_index", keyIndex, "err", err)
		return apdu.Response{Status: apdu.SWDeveloperErr}
	}
	addr := hathor.HashToAddress(kp.RecipientHash())
	kp.Zero()

	if err := d.display.CompareAddress(addr); err != nil {
		return apdu.Response{Status: apdu.SWDeveloperErr}
	}
	d.display.Idle()
	return apdu.Response{Status: apdu.SWOK}
}

// handleGetXPub returns the components of the external-branch extended
// public key after the operator authorizes the export: uncompressed public
// key, chain code, then the parent fingerprint.
func (d *Device) handleGetXPub() apdu.Response {
	ok, err := d.display.ConfirmAccess()
	if err != nil {
		return apdu.Response{Status: apdu.SWDeveloperErr}
	}
	if !ok {
		return apdu.Response{Status: apdu.SWUserRejected}
	}

	xp, err := d.wallet.XPub()
	if err != nil {
		d.log.Error("xpub derivation failed", "err", err)
		return apdu.Response{Status: apdu.SWDeveloperErr}
	}

	data := make([]byte, 0, len(xp.PublicKey)+len(xp.ChainCode)+len(xp.ParentFingerprint))
	data = append(data, xp.PublicKey[:]...)
	data = append(data, xp.ChainCode[:]...)
	data = append(data, xp.ParentFingerprint[:]...)

	d.display.Idle()
	return apdu.Response{Data: data, Status: apdu.SWOK}
}
