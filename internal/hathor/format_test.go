// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package hathor

import "testing"

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		value    uint64
		expected string
	}{
		{
			name:     "zero",
			value:    0,
			expected: "0.00",
		},
		{
			name:     "sub-unit",
			value:    50,
			expected: "0.50",
		},
		{
			name:     "one HTR",
			value:    100,
			expected: "1.00",
		},
		{
			name:     "single cent",
			value:    1,
			expected: "0.01",
		},
		{
			name:     "thousands separator",
			value:    500000,
			expected: "5,000.00",
		},
		{
			name:     "exact group boundary",
			value:    100000,
			expected: "1,000.00",
		},
		{
			name:     "two separators",
			value:    123456789,
			expected: "1,234,567.89",
		},
		{
			name:     "just under a group",
			value:    99999,
			expected: "999.99",
		},
		{
			name:     "large value",
			value:    1000000000000,
			expected: "10,000,000,000.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatValue(tt.value)
			if got != tt.expected {
				t.Errorf("FormatValue(%d) = %q, want %q", tt.value, got, tt.expected)
			}
		})
	}
}

func TestParseValueRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 50, 99, 100, 99999, 500000, 123456789, 1000000000000}
	for _, v := range values {
		s := FormatValue(v)
		got, err := ParseValue(s)
		if err != nil {
			t.Fatalf("ParseValue(%q): %v", s, err)
		}
		if got != v {
			t.Errorf("ParseValue(FormatValue(%d)) = %d", v, got)
		}
	}
}

func TestParseValueRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "5", "5.1", "5.123", "a.bc", "1..00"} {
		if _, err := ParseValue(s); err == nil {
			t.Errorf("ParseValue(%q) succeeded, want error", s)
		}
	}
}
