// utils/gatenumber_test.go
package utils

import (
	"testing"
	"time"
)

func TestFormatGateEntryNo(t *testing.T) {
	at := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		warehouse string
		n         int
		want      string
	}{
		{"standard", "ATDVG", 123456, "ATDVG2026123456"},
		{"zero padded", "ATBLR", 42, "ATBLR2026000042"},
		{"zero", "ATHUB", 0, "ATHUB2026000000"},
		{"wraps at a million", "ATMYS", 1000001, "ATMYS2026000001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatGateEntryNo(tt.warehouse, at, tt.n); got != tt.want {
				t.Errorf("FormatGateEntryNo(%q, %d) = %q, want %q", tt.warehouse, tt.n, got, tt.want)
			}
		})
	}
}

func TestFormatGateEntryNoUsesEntryYear(t *testing.T) {
	got := FormatGateEntryNo("ATDVG", time.Date(2027, 1, 1, 0, 0, 1, 0, time.UTC), 7)
	if got != "ATDVG2027000007" {
		t.Errorf("expected year rollover in identifier, got %q", got)
	}
}
