// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package device

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"sync"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/HathorNetwork/ledger-app-hathor/internal/apdu"
	"github.com/HathorNetwork/ledger-app-hathor/internal/hathor"
	"github.com/HathorNetwork/ledger-app-hathor/internal/keys"
)

// scriptedDisplay records every screen interaction and answers confirmations
// from a script.
type scriptedDisplay struct {
	mu sync.Mutex

	reviews   []string // "position/total address value"
	compared  []string
	approve   bool // answer for ConfirmSend
	allow     bool // answer for ConfirmAccess
	idleCount int
}

func (d *scriptedDisplay) ReviewOutput(position, total int, address, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reviews = append(d.reviews, reviewLine(position, total, address, value))
	return nil
}

func reviewLine(position, total int, address, value string) string {
	return string(rune('0'+position)) + "/" + string(rune('0'+total)) + " " + address + " " + value
}

func (d *scriptedDisplay) ConfirmSend() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.approve, nil
}

func (d *scriptedDisplay) CompareAddress(address string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.compared = append(d.compared, address)
	return nil
}

func (d *scriptedDisplay) ConfirmAccess() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.allow, nil
}

func (d *scriptedDisplay) Processing() {}

func (d *scriptedDisplay) Idle() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.idleCount++
}

func testDevice(t *testing.T, display Display) (*Device, *keys.Wallet) {
	t.Helper()
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i*3 + 1)
	}
	w, err := keys.NewWallet(seed)
	if err != nil {
		t.Fatalf("NewWallet: %v", err)
	}
	t.Cleanup(w.Close)
	return New(w, display, slog.Default()), w
}

func exchange(t *testing.T, d *Device, cmd apdu.Command) apdu.Response {
	t.Helper()
	return d.Exchange(cmd, apdu.Class)
}

func keyIndexBytes(index uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, index)
}

func TestGetVersion(t *testing.T) {
	d, _ := testDevice(t, &scriptedDisplay{})

	resp := exchange(t, d, apdu.Command{Ins: apdu.InsGetVersion})
	if resp.Status != apdu.SWOK {
		t.Fatalf("status = %v", resp.Status)
	}
	if len(resp.Data) != 6 || !bytes.Equal(resp.Data[:3], []byte("HTR")) {
		t.Errorf("version payload = %v", resp.Data)
	}
}

func TestBadClassAndUnknownIns(t *testing.T) {
	d, _ := testDevice(t, &scriptedDisplay{})

	if resp := d.Exchange(apdu.Command{Ins: apdu.InsGetVersion}, 0x80); resp.Status != apdu.SWBadClass {
		t.Errorf("foreign class status = %v", resp.Status)
	}
	if resp := exchange(t, d, apdu.Command{Ins: 0x42}); resp.Status != apdu.SWUnknownIns {
		t.Errorf("unknown instruction status = %v", resp.Status)
	}
}

func TestGetAddressShowsOnScreenOnly(t *testing.T) {
	display := &scriptedDisplay{}
	d, w := testDevice(t, display)

	resp := exchange(t, d, apdu.Command{Ins: apdu.InsGetAddress, Data: keyIndexBytes(3)})
	if resp.Status != apdu.SWOK {
		t.Fatalf("status = %v", resp.Status)
	}
	if len(resp.Data) != 0 {
		t.Errorf("address leaked into the response: %v", resp.Data)
	}

	kp, err := w.Derive(0, 3)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	expected := hathor.HashToAddress(kp.RecipientHash())
	kp.Zero()

	if len(display.compared) != 1 || display.compared[0] != expected {
		t.Errorf("compared = %v, want [%s]", display.compared, expected)
	}
}

func TestGetAddressShortPayload(t *testing.T) {
	d, _ := testDevice(t, &scriptedDisplay{})
	resp := exchange(t, d, apdu.Command{Ins: apdu.InsGetAddress, Data: []byte{0, 0}})
	if resp.Status != apdu.SWInvalidParam {
		t.Errorf("status = %v, want SWInvalidParam", resp.Status)
	}
}

func TestGetXPub(t *testing.T) {
	display := &scriptedDisplay{allow: true}
	d, w := testDevice(t, display)

	resp := exchange(t, d, apdu.Command{Ins: apdu.InsGetXPub})
	if resp.Status != apdu.SWOK {
		t.Fatalf("status = %v", resp.Status)
	}
	if len(resp.Data) != 65+32+4 {
		t.Fatalf("xpub payload length = %d", len(resp.Data))
	}

	xp, err := w.XPub()
	if err != nil {
		t.Fatalf("XPub: %v", err)
	}
	if !bytes.Equal(resp.Data[:65], xp.PublicKey[:]) {
		t.Error("public key mismatch")
	}
	if !bytes.Equal(resp.Data[65:97], xp.ChainCode[:]) {
		t.Error("chain code mismatch")
	}
}

func TestGetXPubRejected(t *testing.T) {
	d, _ := testDevice(t, &scriptedDisplay{allow: false})
	resp := exchange(t, d, apdu.Command{Ins: apdu.InsGetXPub})
	if resp.Status != apdu.SWUserRejected {
		t.Errorf("status = %v, want SWUserRejected", resp.Status)
	}
}

// signFlow streams the sign-request data in transport-sized chunks and
// returns the first non-OK response, or the final OK.
func signFlow(t *testing.T, d *Device, data []byte) apdu.Response {
	t.Helper()
	var last apdu.Response
	for off := 0; off < len(data); off += apdu.MaxPayload {
		end := off + apdu.MaxPayload
		if end > len(data) {
			end = len(data)
		}
		last = exchange(t, d, apdu.Command{Ins: apdu.InsSignTx, P1: apdu.SignPhaseData, Data: data[off:end]})
		if last.Status != apdu.SWOK {
			return last
		}
	}
	return last
}

func testSignRequest(t *testing.T, w *keys.Wallet, changeKey *uint32) []byte {
	t.Helper()

	var foreign [hathor.RecipientHashLen]byte
	for i := range foreign {
		foreign[i] = 0xD0
	}
	outputs := []hathor.Output{
		{Value: 500000, Script: hathor.P2PKHScript(foreign)},
	}

	var change *hathor.ChangeInfo
	if changeKey != nil {
		kp, err := w.Derive(0, *changeKey)
		if err != nil {
			t.Fatalf("Derive: %v", err)
		}
		outputs = append(outputs, hathor.Output{Value: 42, Script: hathor.P2PKHScript(kp.RecipientHash())})
		kp.Zero()
		change = &hathor.ChangeInfo{OutputIndex: 1, KeyIndex: *changeKey}
	}

	var txid [32]byte
	txid[5] = 0x77
	tx := &hathor.Transaction{
		Version: hathor.TxVersion,
		Inputs:  []hathor.Input{{TxID: txid, Index: 1}},
		Outputs: outputs,
	}
	data, err := hathor.SignRequestData(tx, change)
	if err != nil {
		t.Fatalf("SignRequestData: %v", err)
	}
	return data
}

func TestSignTransactionEndToEnd(t *testing.T) {
	display := &scriptedDisplay{approve: true}
	d, w := testDevice(t, display)

	data := testSignRequest(t, w, nil)
	if resp := signFlow(t, d, data); resp.Status != apdu.SWOK {
		t.Fatalf("data phase status = %v", resp.Status)
	}

	if len(display.reviews) != 1 {
		t.Fatalf("reviews = %v", display.reviews)
	}
	var foreign [hathor.RecipientHashLen]byte
	for i := range foreign {
		foreign[i] = 0xD0
	}
	expected := reviewLine(1, 1, hathor.HashToAddress(foreign), "5,000.00")
	if display.reviews[0] != expected {
		t.Errorf("review = %q, want %q", display.reviews[0], expected)
	}

	const keyIndex = 5
	resp := exchange(t, d, apdu.Command{Ins: apdu.InsSignTx, P1: apdu.SignPhaseSignature, Data: keyIndexBytes(keyIndex)})
	if resp.Status != apdu.SWOK {
		t.Fatalf("signature phase status = %v", resp.Status)
	}

	sig, err := ecdsa.ParseDERSignature(resp.Data)
	if err != nil {
		t.Fatalf("ParseDERSignature: %v", err)
	}
	sighash := hathor.Sha256d(data[1:])
	kp, err := w.Derive(0, keyIndex)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	defer kp.Zero()
	if !sig.Verify(sighash[:], kp.PubKey()) {
		t.Error("signature does not verify")
	}

	// Completion returns the device to idle; further signature requests are
	// improper.
	if resp := exchange(t, d, apdu.Command{Ins: apdu.InsSignTx, P1: apdu.SignPhaseDone}); resp.Status != apdu.SWOK {
		t.Fatalf("done phase status = %v", resp.Status)
	}
	resp = exchange(t, d, apdu.Command{Ins: apdu.InsSignTx, P1: apdu.SignPhaseSignature, Data: keyIndexBytes(0)})
	if resp.Status != apdu.SWDeveloperErr {
		t.Errorf("signature after completion status = %v", resp.Status)
	}
}

func TestSignTransactionWithChange(t *testing.T) {
	display := &scriptedDisplay{approve: true}
	d, w := testDevice(t, display)

	changeKey := uint32(9)
	data := testSignRequest(t, w, &changeKey)
	if resp := signFlow(t, d, data); resp.Status != apdu.SWOK {
		t.Fatalf("data phase status = %v", resp.Status)
	}

	// The change output is verified silently; only the payment shows up,
	// numbered out of the non-change count.
	if len(display.reviews) != 1 {
		t.Fatalf("reviews = %v", display.reviews)
	}
	var foreign [hathor.RecipientHashLen]byte
	for i := range foreign {
		foreign[i] = 0xD0
	}
	expected := reviewLine(1, 1, hathor.HashToAddress(foreign), "5,000.00")
	if display.reviews[0] != expected {
		t.Errorf("review = %q, want %q", display.reviews[0], expected)
	}
}

func TestSignTransactionRejected(t *testing.T) {
	display := &scriptedDisplay{approve: false}
	d, w := testDevice(t, display)

	data := testSignRequest(t, w, nil)
	resp := signFlow(t, d, data)
	if resp.Status != apdu.SWUserRejected {
		t.Fatalf("status = %v, want SWUserRejected", resp.Status)
	}

	// Rejection discards the session entirely.
	resp = exchange(t, d, apdu.Command{Ins: apdu.InsSignTx, P1: apdu.SignPhaseSignature, Data: keyIndexBytes(0)})
	if resp.Status != apdu.SWDeveloperErr {
		t.Errorf("signature after rejection status = %v", resp.Status)
	}
}

func TestSignatureBeforeDataIsImproper(t *testing.T) {
	d, _ := testDevice(t, &scriptedDisplay{})
	resp := exchange(t, d, apdu.Command{Ins: apdu.InsSignTx, P1: apdu.SignPhaseSignature, Data: keyIndexBytes(0)})
	if resp.Status != apdu.SWDeveloperErr {
		t.Errorf("status = %v, want SWDeveloperErr", resp.Status)
	}
}

func TestSignTxUnknownPhase(t *testing.T) {
	d, _ := testDevice(t, &scriptedDisplay{})
	resp := exchange(t, d, apdu.Command{Ins: apdu.InsSignTx, P1: 9})
	if resp.Status != apdu.SWInvalidParam {
		t.Errorf("status = %v, want SWInvalidParam", resp.Status)
	}
}

func TestMalformedStreamResetsSession(t *testing.T) {
	display := &scriptedDisplay{approve: true}
	d, w := testDevice(t, display)

	data := testSignRequest(t, w, nil)
	// Corrupt the input's data length so decoding aborts.
	bad := append([]byte{}, data...)
	bad[1+5+32+1] = 0x01

	if resp := signFlow(t, d, bad); resp.Status != apdu.SWInvalidParam {
		t.Fatalf("corrupt stream status = %v", resp.Status)
	}

	// The failure wiped the session, so a clean retry succeeds from scratch.
	if resp := signFlow(t, d, data); resp.Status != apdu.SWOK {
		t.Errorf("retry after failure status = %v", resp.Status)
	}
}

func TestLockout(t *testing.T) {
	d, _ := testDevice(t, &scriptedDisplay{})

	d.Lockout()

	resp := exchange(t, d, apdu.Command{Ins: apdu.InsGetVersion})
	if resp.Status != apdu.SWImproperInit {
		t.Errorf("status = %v, want SWImproperInit", resp.Status)
	}
}
