package main

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/swapsafe/swapsafe-backend/pkg/config"
)

func TestNewFeePolicyFromConfig(t *testing.T) {
	fees, err := newFeePolicy(config.FeeConfig{BasisPoints: 300, Currency: "USD"})
	if err != nil {
		t.Fatalf("fee policy: %v", err)
	}
	if got := fees.Fee(decimal.RequireFromString("899.99")); !got.Equal(decimal.RequireFromString("27")) {
		t.Fatalf("expected 27.00 fee, got %s", got)
	}

	if _, err := newFeePolicy(config.FeeConfig{BasisPoints: 10001}); err == nil {
		t.Fatal("expected error for a fee above 100%")
	}
}
