package transactions

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPercentFee(t *testing.T) {
	policy, err := NewPercentFee(300)
	if err != nil {
		t.Fatalf("new fee: %v", err)
	}
	cases := map[string]string{
		"650":    "19.5",
		"1200":   "36",
		"280":    "8.4",
		"0.99":   "0.03",
		"-10.00": "0",
	}
	for amount, want := range cases {
		got := policy.Fee(decimal.RequireFromString(amount))
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Fatalf("fee(%s) = %s, want %s", amount, got, want)
		}
	}
	if _, err := NewPercentFee(10001); err == nil {
		t.Fatal("expected error for more than 100%")
	}
}

func TestTransactionIDs(t *testing.T) {
	if got := FormatID(2024, 1); got != "SW-2024-001" {
		t.Fatalf("unexpected id %q", got)
	}
	if got := FormatID(2025, 1234); got != "SW-2025-1234" {
		t.Fatalf("unexpected id %q", got)
	}
	year, seq, err := ParseID("SW-2024-005")
	if err != nil || year != 2024 || seq != 5 {
		t.Fatalf("parse: %d %d %v", year, seq, err)
	}
	for _, bad := range []string{"", "SW-24-001", "sw-2024-001", "SW-2024-1", "SW-2024-001x"} {
		if _, _, err := ParseID(bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}
