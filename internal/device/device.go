// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

// Package device implements the command dispatch loop of the signing device:
// it reads APDU commands from the host connection, routes them to handlers
// and writes back responses, mirroring a boot-to-power-off firmware loop.
// One command runs to completion before the next is accepted.
package device

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/HathorNetwork/ledger-app-hathor/internal/apdu"
	"github.com/HathorNetwork/ledger-app-hathor/internal/keys"
	"github.com/HathorNetwork/ledger-app-hathor/internal/signtx"
)

// Device owns the wallet, the single signing session and the screen.
type Device struct {
	mu      sync.Mutex
	wallet  *keys.Wallet
	session *signtx.Session
	display Display
	log     *slog.Logger

	// locked is set when the seed file changed on disk; every command is
	// refused until the operator restarts the device.
	locked bool
}

// New assembles a device around an unlocked wallet.
func New(wallet *keys.Wallet, display Display, log *slog.Logger) *Device {
	return &Device{
		wallet:  wallet,
		session: signtx.NewSession(wallet),
		display: display,
		log:     log,
	}
}

// Lockout wipes the wallet and session. Triggered by the seed watcher when
// the on-disk seed no longer matches what is in memory.
func (d *Device) Lockout() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.locked {
		return
	}
	d.locked = true
	d.session.Reset()
	d.wallet.Close()
	d.display.Idle()
	d.log.Warn("device locked: seed file changed on disk, restart required")
}

// Exchange processes one command and produces its response. Any non-success
// status tears the session down and returns the screen to idle; success
// preserves session state across calls, which is how mid-stream continuation
// works.
func (d *Device) Exchange(cmd apdu.Command, cla byte) apdu.Response {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.locked {
		return apdu.Response{Status: apdu.SWImproperInit}
	}

	resp := d.dispatch(cmd, cla)
	if !resp.Status.OK() {
		d.session.Reset()
		d.display.Idle()
	}
	return resp
}

func (d *Device) dispatch(cmd apdu.Command, cla byte) apdu.Response {
	if cla != apdu.Class {
		return apdu.Response{Status: apdu.SWBadClass}
	}
	switch cmd.Ins {
	case apdu.InsGetVersion:
		return d.handleGetVersion()
	case apdu.InsGetAddress:
		return d.handleGetAddress(cmd.Data)
	case apdu.InsSignTx:
		return d.handleSignTx(cmd.P1, cmd.Data)
	case apdu.InsGetXPub:
		return d.handleGetXPub()
	default:
		return apdu.Response{Status: apdu.SWUnknownIns}
	}
}

// ServeConn exchanges APDUs with one host connection until it closes. A
// dropped connection is a transport reset: the session is discarded.
func (d *Device) ServeConn(conn net.Conn) error {
	defer func() {
		d.mu.Lock()
		d.session.Reset()
		d.display.Idle()
		d.mu.Unlock()
	}()

	for {
		raw, err := apdu.ReadFrame(conn)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		cmd, cla, err := apdu.ParseCommand(raw)
		var resp apdu.Response
		if err != nil {
			d.log.Debug("malformed command", "err", err)
			resp = apdu.Response{Status: apdu.SWInvalidParam}
		} else {
			resp = d.Exchange(cmd, cla)
		}

		if err := apdu.WriteResponse(conn, resp); err != nil {
			return err
		}
	}
}

// ListenAndServe accepts host connections on a Unix socket, one at a time.
// The device has a single host; there is no concurrent serving.
func (d *Device) ListenAndServe(ctx context.Context, socketPath string) error {
	_ = os.Remove(socketPath)
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(socketPath) }()

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	d.log.Info("listening for host connections", "socket", socketPath)
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		d.log.Info("host connected")
		if err := d.ServeConn(conn); err != nil {
			d.log.Warn("host connection error", "err", err)
		} else {
			d.log.Info("host disconnected")
		}
		_ = conn.Close()
	}
}
