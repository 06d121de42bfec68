// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package device

import "log/slog"

// Display models the device's two-line screen and its two buttons. Blocking
// methods return only when the operator acts; command processing is paused
// until then, which is what gates signing on human review.
type Display interface {
	// ReviewOutput shows one non-change output, labeled with its 1-based
	// position among the reviewable outputs. It blocks until the operator
	// presses both buttons to advance.
	ReviewOutput(position, total int, address, value string) error

	// ConfirmSend shows the final send confirmation and reports the choice.
	ConfirmSend() (bool, error)

	// CompareAddress shows a derived receiving address for visual comparison
	// and blocks until the operator proceeds.
	CompareAddress(address string) error

	// ConfirmAccess asks whether to authorize xpub export.
	ConfirmAccess() (bool, error)

	// Processing indicates signatures are being produced. Non-blocking.
	Processing()

	// Idle returns the screen to the main menu. Non-blocking.
	Idle()
}

// AutoApproveDisplay answers every interaction affirmatively and logs what
// would have been shown. Used for headless setups and tests; it removes the
// operator from the loop entirely.
type AutoApproveDisplay struct {
	Log *slog.Logger
}

func (d *AutoApproveDisplay) ReviewOutput(position, total int, address, value string) error {
	d.Log.Info("output auto-reviewed", "position", position, "total", total, "address", address, "value", value)
	return nil
}

func (d *AutoApproveDisplay) ConfirmSend() (bool, error) {
	d.Log.Warn("transaction auto-approved")
	return true, nil
}

func (d *AutoApproveDisplay) CompareAddress(address string) error {
	d.Log.Info("address auto-acknowledged", "address", address)
	return nil
}

func (d *AutoApproveDisplay) ConfirmAccess() (bool, error) {
	d.Log.Warn("xpub access auto-approved")
	return true, nil
}

func (d *AutoApproveDisplay) Processing() {}

func (d *AutoApproveDisplay) Idle() {}
