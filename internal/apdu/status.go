// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package apdu

import "fmt"

// Status is the 2-byte status word that ends every response.
type Status uint16

// Status words. 0x9000 is the single success code; a leading 0x6 nibble
// denotes a typed failure.
const (
	SWOK           Status = 0x9000
	SWDeveloperErr Status = 0x6B00
	SWInvalidParam Status = 0x6B01
	SWImproperInit Status = 0x6B02
	SWUserRejected Status = 0x6985
	SWBadClass     Status = 0x6E00
	SWUnknownIns   Status = 0x6D00
)

// OK reports whether the status denotes success.
func (s Status) OK() bool {
	return s == SWOK
}

func (s Status) String() string {
	switch s {
	case SWOK:
		return "ok"
	case SWDeveloperErr:
		return "developer error"
	case SWInvalidParam:
		return "invalid parameter"
	case SWImproperInit:
		return "improper initialization"
	case SWUserRejected:
		return "user rejected"
	case SWBadClass:
		return "unrecognized class"
	case SWUnknownIns:
		return "unrecognized instruction"
	default:
		return fmt.Sprintf("status 0x%04X", uint16(s))
	}
}

// Err returns nil for success and a StatusError otherwise. Host-side
// convenience for turning a response into Go error flow.
func (s Status) Err() error {
	if s.OK() {
		return nil
	}
	return StatusError(s)
}

// StatusError is a non-success status word carried as an error.
type StatusError Status

func (e StatusError) Error() string {
	return fmt.Sprintf("device returned %s (0x%04X)", Status(e), uint16(e))
}
