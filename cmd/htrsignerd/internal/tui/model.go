// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

// Package tui renders the two-line device screen in the terminal. The
// left/right arrow keys stand in for the device buttons and enter for the
// both-buttons chord, so an operator drives review and approval exactly the
// way they would on the physical unit.
package tui

import tea "github.com/charmbracelet/bubbletea"

// screenWidth is the number of characters visible on one device line.
// Longer content scrolls horizontally under the arrow keys.
const screenWidth = 12

// ViewState is the screen currently shown to the operator.
type ViewState int

const (
	ViewIdle ViewState = iota
	ViewCompareAddress
	ViewReviewOutput
	ViewConfirmSend
	ViewConfirmAccess
	ViewProcessing
	ViewLocked
)

// Model is the device screen state.
type Model struct {
	viewState  ViewState
	socketPath string

	// Scrollable content for the compare-address and review screens.
	title  string
	text   string
	offset int

	// Approve/reject focus on confirmation screens. 0 = approve.
	focus int

	// Channels the device goroutine is blocked on.
	done   chan struct{}
	result chan bool
}

func newModel(socketPath string) Model {
	return Model{viewState: ViewIdle, socketPath: socketPath}
}

func (m Model) Init() tea.Cmd { return nil }

// window returns the visible slice of the scrollable text.
func (m Model) window() string {
	if len(m.text) <= screenWidth {
		return m.text
	}
	end := m.offset + screenWidth
	if end > len(m.text) {
		end = len(m.text)
	}
	return m.text[m.offset:end]
}

func (m Model) maxOffset() int {
	if len(m.text) <= screenWidth {
		return 0
	}
	return len(m.text) - screenWidth
}

// release answers whatever channel the device goroutine is waiting on, so
// quitting the screen never wedges the command loop.
func (m *Model) release(approve bool) {
	if m.result != nil {
		m.result <- approve
		m.result = nil
	}
	if m.done != nil {
		close(m.done)
		m.done = nil
	}
}
