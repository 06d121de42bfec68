// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles device requests and operator key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// A locked device stays locked until restart; only quitting works, and
	// any late request from the command loop is answered with a rejection.
	if m.viewState == ViewLocked {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
				return m, tea.Quit
			}
		case reviewOutputMsg:
			close(msg.done)
		case compareAddressMsg:
			close(msg.done)
		case confirmSendMsg:
			msg.result <- false
		case confirmAccessMsg:
			msg.result <- false
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case reviewOutputMsg:
		m.viewState = ViewReviewOutput
		m.title = outputTitle(msg.position, msg.total)
		m.text = msg.address + "  HTR " + msg.value
		m.offset = 0
		m.done = msg.done
		return m, nil

	case confirmSendMsg:
		m.viewState = ViewConfirmSend
		m.focus = 0
		m.result = msg.result
		return m, nil

	case compareAddressMsg:
		m.viewState = ViewCompareAddress
		m.title = "Address"
		m.text = msg.address
		m.offset = 0
		m.done = msg.done
		return m, nil

	case confirmAccessMsg:
		m.viewState = ViewConfirmAccess
		m.focus = 0
		m.result = msg.result
		return m, nil

	case processingMsg:
		m.viewState = ViewProcessing
		return m, nil

	case idleMsg:
		m.viewState = ViewIdle
		return m, nil

	case lockedMsg:
		m.release(false)
		m.viewState = ViewLocked
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
		m.release(false)
		return m, tea.Quit
	}

	switch m.viewState {
	case ViewCompareAddress, ViewReviewOutput:
		switch msg.Type {
		case tea.KeyLeft:
			if m.offset > 0 {
				m.offset--
			}
		case tea.KeyRight:
			if m.offset < m.maxOffset() {
				m.offset++
			}
		case tea.KeyEnter:
			m.release(true)
			m.viewState = ViewProcessing
		}

	case ViewConfirmSend, ViewConfirmAccess:
		switch msg.Type {
		case tea.KeyLeft, tea.KeyRight:
			m.focus = 1 - m.focus
		case tea.KeyEnter:
			m.release(m.focus == 0)
			m.viewState = ViewProcessing
		default:
			switch msg.String() {
			case "y":
				m.release(true)
				m.viewState = ViewProcessing
			case "n":
				m.release(false)
				m.viewState = ViewProcessing
			}
		}
	}
	return m, nil
}
