// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package hathor

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatValue renders an output value in HTR units: two fixed decimal places
// and thousands separated by commas. Values are stored in centi-HTR, so
// 500000 renders as "5,000.00" and 50 as "0.50".
func FormatValue(value uint64) string {
	whole := strconv.FormatUint(value/100, 10)

	var b strings.Builder
	lead := len(whole) % 3
	if lead > 0 {
		b.WriteString(whole[:lead])
	}
	for i := lead; i < len(whole); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(whole[i : i+3])
	}

	return fmt.Sprintf("%s.%02d", b.String(), value%100)
}

// ParseValue parses a string produced by FormatValue back into the raw value.
func ParseValue(s string) (uint64, error) {
	cleaned := strings.ReplaceAll(s, ",", "")
	whole, frac, ok := strings.Cut(cleaned, ".")
	if !ok || len(frac) != 2 {
		return 0, fmt.Errorf("malformed value %q", s)
	}
	w, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed value %q: %w", s, err)
	}
	f, err := strconv.ParseUint(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed value %q: %w", s, err)
	}
	return w*100 + f, nil
}
