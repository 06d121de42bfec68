// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package tui

// Messages sent into the program by the device goroutine. Each blocking
// request carries the channel the device waits on; the Update loop answers
// it when the operator presses the right key.

type reviewOutputMsg struct {
	position int
	total    int
	address  string
	value    string
	done     chan struct{}
}

type confirmSendMsg struct {
	result chan bool
}

type compareAddressMsg struct {
	address string
	done    chan struct{}
}

type confirmAccessMsg struct {
	result chan bool
}

type processingMsg struct{}

type idleMsg struct{}

type lockedMsg struct{}
