// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

// Package transport implements the host side of the device protocol: a Unix
// socket client that exchanges framed APDU messages with a running
// htrsignerd and exposes one method per device operation.
package transport

import (
	"encoding/binary"
	"fmt"
	"net"
	"time"

	"github.com/HathorNetwork/ledger-app-hathor/internal/apdu"
)

// Client is a Unix socket client for device connections.
type Client struct {
	conn       net.Conn
	socketPath string
}

// NewClient creates a device client (not yet connected).
func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

// Dial connects to the device socket.
func (c *Client) Dial() error {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect to device socket: %w", err)
	}
	c.conn = conn
	return nil
}

// Close closes the device connection.
func (c *Client) Close() {
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// SetReadDeadline sets a deadline for the next exchange.
func (c *Client) SetReadDeadline(d time.Duration) {
	if c.conn != nil {
		_ = c.conn.SetReadDeadline(time.Now().Add(d))
	}
}

// Exchange sends one command and reads its response. The device processes
// commands strictly in order, so every request has exactly one reply.
func (c *Client) Exchange(cmd apdu.Command) (apdu.Response, error) {
	if c.conn == nil {
		return apdu.Response{}, ErrNotConnected
	}
	if err := apdu.WriteCommand(c.conn, cmd); err != nil {
		return apdu.Response{}, fmt.Errorf("failed to send command: %w", err)
	}
	resp, err := apdu.ReadResponse(c.conn)
	if err != nil {
		return apdu.Response{}, fmt.Errorf("failed to read response: %w", err)
	}
	return resp, nil
}

// GetVersion queries the app identity and returns the version string.
func (c *Client) GetVersion() (string, error) {
	resp, err := c.Exchange(apdu.Command{Ins: apdu.InsGetVersion})
	if err != nil {
		return "", err
	}
	if err := resp.Status.Err(); err != nil {
		return "", err
	}
	if len(resp.Data) != 6 || string(resp.Data[:3]) != "HTR" {
		return "", ErrWrongApp
	}
	return fmt.Sprintf("%d.%d.%d", resp.Data[3], resp.Data[4], resp.Data[5]), nil
}

// GetAddress asks the device to display the receiving address for a key
// index. The call blocks until the operator dismisses the comparison screen;
// no address bytes come back.
func (c *Client) GetAddress(keyIndex uint32) error {
	data := binary.BigEndian.AppendUint32(nil, keyIndex)
	resp, err := c.Exchange(apdu.Command{Ins: apdu.InsGetAddress, Data: data})
	if err != nil {
		return err
	}
	return resp.Status.Err()
}

// XPubResult carries the extended public key components for 44'/280'/0'/0.
type XPubResult struct {
	PublicKey         [65]byte
	ChainCode         [32]byte
	ParentFingerprint [4]byte
}

// GetXPub requests the extended public key. Requires operator approval on
// the device.
func (c *Client) GetXPub() (*XPubResult, error) {
	resp, err := c.Exchange(apdu.Command{Ins: apdu.InsGetXPub})
	if err != nil {
		return nil, err
	}
	if err := resp.Status.Err(); err != nil {
		return nil, err
	}
	if len(resp.Data) != 65+32+4 {
		return nil, fmt.Errorf("malformed xpub response of %d bytes", len(resp.Data))
	}
	var out XPubResult
	copy(out.PublicKey[:], resp.Data[:65])
	copy(out.ChainCode[:], resp.Data[65:97])
	copy(out.ParentFingerprint[:], resp.Data[97:])
	return &out, nil
}

// SignTx streams the sign-request data to the device in transport-sized
// chunks, then requests one signature per key index and completes the
// session. The data-phase calls block while the operator reviews outputs.
func (c *Client) SignTx(data []byte, keyIndexes []uint32) ([][]byte, error) {
	for off := 0; off < len(data); off += apdu.MaxPayload {
		end := off + apdu.MaxPayload
		if end > len(data) {
			end = len(data)
		}
		resp, err := c.Exchange(apdu.Command{
			Ins:  apdu.InsSignTx,
			P1:   apdu.SignPhaseData,
			Data: data[off:end],
		})
		if err != nil {
			return nil, err
		}
		if err := resp.Status.Err(); err != nil {
			return nil, err
		}
	}

	sigs := make([][]byte, 0, len(keyIndexes))
	for _, idx := range keyIndexes {
		payload := binary.BigEndian.AppendUint32(nil, idx)
		resp, err := c.Exchange(apdu.Command{
			Ins:  apdu.InsSignTx,
			P1:   apdu.SignPhaseSignature,
			Data: payload,
		})
		if err != nil {
			return nil, err
		}
		if err := resp.Status.Err(); err != nil {
			return nil, err
		}
		sigs = append(sigs, resp.Data)
	}

	resp, err := c.Exchange(apdu.Command{Ins: apdu.InsSignTx, P1: apdu.SignPhaseDone})
	if err != nil {
		return nil, err
	}
	if err := resp.Status.Err(); err != nil {
		return nil, err
	}
	return sigs, nil
}
