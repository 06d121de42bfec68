// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package signtx

import "errors"

// Sentinel errors for protocol and semantic violations. Any of these tears
// the session down; there is no partial recovery once a miscounted stream is
// detected.
var (
	// ErrBufferOverflow means the host sent more undecoded bytes than the
	// working buffer can hold.
	ErrBufferOverflow = errors.New("working buffer capacity exceeded")

	// ErrNonEmptyInputData means an input carried embedded data; the signed
	// digest must cover inputs with empty data.
	ErrNonEmptyInputData = errors.New("input data length must be zero")

	// ErrTrailingBytes means bytes remained after all declared elements were
	// consumed.
	ErrTrailingBytes = errors.New("trailing bytes after last element")

	// ErrChangeIndexRange means the declared change output index is not a
	// valid output position.
	ErrChangeIndexRange = errors.New("change output index out of range")

	// ErrChangeMismatch means the change output's recipient hash does not
	// belong to the declared key index.
	ErrChangeMismatch = errors.New("change output does not match declared key")

	// ErrDataAfterApproval means transaction bytes arrived after the operator
	// approved the spend.
	ErrDataAfterApproval = errors.New("no transaction data accepted after approval")

	// ErrNotApproved means a signature was requested before the operator
	// confirmed the transaction.
	ErrNotApproved = errors.New("transaction not approved by operator")

	// ErrNotReceiving means a decode step was attempted outside the
	// data-receiving state.
	ErrNotReceiving = errors.New("session is not receiving data")
)

// errNeedMore is internal to the decoder: the current element spans past the
// buffered bytes. It never escapes as an error; it becomes StatusPartial.
var errNeedMore = errors.New("need more bytes")
