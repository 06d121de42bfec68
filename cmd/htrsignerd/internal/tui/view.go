// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles
var (
	screenStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			Width(screenWidth + 4)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	focusedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	lockedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

func outputTitle(position, total int) string {
	return fmt.Sprintf("Output %d/%d", position, total)
}

// View renders the two device lines inside a bordered box, with key hints
// underneath.
func (m Model) View() string {
	var line1, line2, hint string

	switch m.viewState {
	case ViewIdle:
		line1 = "Hathor"
		line2 = "is ready"
		hint = "listening on " + m.socketPath
	case ViewCompareAddress:
		line1 = m.title
		line2 = m.scrollLine()
		hint = "left/right scroll, enter done"
	case ViewReviewOutput:
		line1 = m.title
		line2 = m.scrollLine()
		hint = "left/right scroll, enter next"
	case ViewConfirmSend:
		line1 = "Confirm"
		line2 = "send?"
		hint = m.confirmHint()
	case ViewConfirmAccess:
		line1 = "Authorize"
		line2 = "access?"
		hint = m.confirmHint()
	case ViewProcessing:
		line1 = "Processing"
		line2 = "..."
	case ViewLocked:
		line1 = "Locked"
		line2 = "restart me"
		hint = "seed file changed on disk"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("htrsignerd") + "\n\n")
	b.WriteString(screenStyle.Render(pad(line1) + "\n" + pad(line2)))
	b.WriteString("\n")
	if m.viewState == ViewLocked {
		b.WriteString(lockedStyle.Render(hint) + "\n")
	} else if hint != "" {
		b.WriteString(hintStyle.Render(hint) + "\n")
	}
	b.WriteString(hintStyle.Render("q quit") + "\n")
	return b.String()
}

// scrollLine marks which direction still has content, the way the device
// shows scroll arrows.
func (m Model) scrollLine() string {
	w := m.window()
	if m.maxOffset() == 0 {
		return w
	}
	left, right := " ", " "
	if m.offset > 0 {
		left = "<"
	}
	if m.offset < m.maxOffset() {
		right = ">"
	}
	return left + w + right
}

func (m Model) confirmHint() string {
	approve, reject := "approve", "reject"
	if m.focus == 0 {
		approve = focusedStyle.Render("[approve]")
	} else {
		reject = focusedStyle.Render("[reject]")
	}
	return approve + " / " + reject + "  (enter confirms, y/n shortcuts)"
}

func pad(s string) string {
	if len(s) >= screenWidth {
		return s
	}
	left := (screenWidth - len(s)) / 2
	return strings.Repeat(" ", left) + s
}
