// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

// Package apdu defines the command/response message units exchanged between
// the host and the signing device, and their framing over a byte stream.
//
// A command carries a class byte, an instruction byte, two parameter bytes
// and up to 255 bytes of payload. A response carries payload bytes followed
// by a 2-byte status word. On the wire each message is preceded by a 2-byte
// big-endian length.
package apdu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Class byte for every Hathor command.
const Class = 0xE0

// Instruction codes.
const (
	InsGetVersion = 0x01
	InsGetAddress = 0x02
	InsSignTx     = 0x04
	InsGetXPub    = 0x10
)

// Sign-transaction sub-phases, selected by P1.
const (
	SignPhaseData      = 0 // transaction bytes (first chunk carries the change declaration)
	SignPhaseSignature = 1 // request one signature, payload is a 4-byte key index
	SignPhaseDone      = 2 // all signatures delivered, return to idle
)

// MaxPayload is the transport's chunk-size cap for command payloads.
const MaxPayload = 255

// maxFrame bounds a single framed message. Large enough for any response
// (xpub is the largest fixed one) while keeping a corrupt length prefix from
// allocating unbounded memory.
const maxFrame = 1024

const headerLen = 5 // CLA INS P1 P2 LC

// Sentinel errors for malformed messages.
var (
	ErrShortMessage = errors.New("message shorter than its declared length")
	ErrBadLength    = errors.New("declared payload length does not match message size")
)

// Command is a single host request.
type Command struct {
	Ins  byte
	P1   byte
	P2   byte
	Data []byte
}

// MarshalBinary encodes the command as CLA INS P1 P2 LC data.
func (c Command) MarshalBinary() ([]byte, error) {
	if len(c.Data) > MaxPayload {
		return nil, fmt.Errorf("payload of %d bytes exceeds chunk cap %d", len(c.Data), MaxPayload)
	}
	buf := make([]byte, headerLen, headerLen+len(c.Data))
	buf[0] = Class
	buf[1] = c.Ins
	buf[2] = c.P1
	buf[3] = c.P2
	buf[4] = byte(len(c.Data))
	return append(buf, c.Data...), nil
}

// ParseCommand decodes a raw command message. The class byte is preserved in
// the error path so the dispatcher can answer unknown classes distinctly.
func ParseCommand(raw []byte) (Command, byte, error) {
	if len(raw) < headerLen {
		return Command{}, 0, ErrShortMessage
	}
	cla := raw[0]
	lc := int(raw[4])
	if len(raw) != headerLen+lc {
		return Command{}, cla, ErrBadLength
	}
	return Command{
		Ins:  raw[1],
		P1:   raw[2],
		P2:   raw[3],
		Data: raw[headerLen:],
	}, cla, nil
}

// Response is a single device reply: payload plus trailing status word.
type Response struct {
	Data   []byte
	Status Status
}

// MarshalBinary encodes the response as data || SW1 SW2.
func (r Response) MarshalBinary() ([]byte, error) {
	buf := make([]byte, len(r.Data)+2)
	copy(buf, r.Data)
	binary.BigEndian.PutUint16(buf[len(r.Data):], uint16(r.Status))
	return buf, nil
}

// ParseResponse decodes a raw response message.
func ParseResponse(raw []byte) (Response, error) {
	if len(raw) < 2 {
		return Response{}, ErrShortMessage
	}
	return Response{
		Data:   raw[:len(raw)-2],
		Status: Status(binary.BigEndian.Uint16(raw[len(raw)-2:])),
	}, nil
}

// WriteFrame writes one length-prefixed message.
func WriteFrame(w io.Writer, body []byte) error {
	if len(body) > maxFrame {
		return fmt.Errorf("frame of %d bytes exceeds limit %d", len(body), maxFrame)
	}
	var prefix [2]byte
	binary.BigEndian.PutUint16(prefix[:], uint16(len(body)))
	if _, err := w.Write(prefix[:]); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

// ReadFrame reads one length-prefixed message.
func ReadFrame(r io.Reader) ([]byte, error) {
	var prefix [2]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, err
	}
	n := int(binary.BigEndian.Uint16(prefix[:]))
	if n > maxFrame {
		return nil, fmt.Errorf("frame of %d bytes exceeds limit %d", n, maxFrame)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}

// WriteCommand frames and writes a command.
func WriteCommand(w io.Writer, c Command) error {
	raw, err := c.MarshalBinary()
	if err != nil {
		return err
	}
	return WriteFrame(w, raw)
}

// ReadResponse reads and decodes one framed response.
func ReadResponse(r io.Reader) (Response, error) {
	raw, err := ReadFrame(r)
	if err != nil {
		return Response{}, err
	}
	return ParseResponse(raw)
}

// WriteResponse frames and writes a response.
func WriteResponse(w io.Writer, resp Response) error {
	raw, err := resp.MarshalBinary()
	if err != nil {
		return err
	}
	return WriteFrame(w, raw)
}
