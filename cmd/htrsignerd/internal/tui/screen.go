// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Screen drives the terminal UI and implements the device display. The
// blocking methods are called from the device command loop and return only
// once the operator has acted, which is what holds the protocol response
// until review is complete.
type Screen struct {
	prog *tea.Program
}

// NewScreen builds the screen for a device listening on socketPath.
func NewScreen(socketPath string) *Screen {
	return &Screen{
		prog: tea.NewProgram(newModel(socketPath), tea.WithAltScreen()),
	}
}

// Run blocks until the operator quits the UI.
func (s *Screen) Run() error {
	_, err := s.prog.Run()
	return err
}

// Quit tears the UI down.
func (s *Screen) Quit() {
	s.prog.Quit()
}

// NotifyLocked switches the screen to the lockout state and releases any
// pending approval as a rejection.
func (s *Screen) NotifyLocked() {
	s.prog.Send(lockedMsg{})
}

func (s *Screen) ReviewOutput(position, total int, address, value string) error {
	done := make(chan struct{})
	s.prog.Send(reviewOutputMsg{position: position, total: total, address: address, value: value, done: done})
	<-done
	return nil
}

func (s *Screen) ConfirmSend() (bool, error) {
	result := make(chan bool, 1)
	s.prog.Send(confirmSendMsg{result: result})
	return <-result, nil
}

func (s *Screen) CompareAddress(address string) error {
	done := make(chan struct{})
	s.prog.Send(compareAddressMsg{address: address, done: done})
	<-done
	return nil
}

func (s *Screen) ConfirmAccess() (bool, error) {
	result := make(chan bool, 1)
	s.prog.Send(confirmAccessMsg{result: result})
	return <-result, nil
}

func (s *Screen) Processing() {
	s.prog.Send(processingMsg{})
}

func (s *Screen) Idle() {
	s.prog.Send(idleMsg{})
}
