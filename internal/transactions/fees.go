package transactions

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FeePolicy computes the marketplace fee charged on an amount.
type FeePolicy interface {
	Fee(amount decimal.Decimal) decimal.Decimal
}

// PercentFee charges BasisPoints/10000 of the amount, rounded to cents.
type PercentFee struct {
	BasisPoints int
}

func NewPercentFee(basisPoints int) (PercentFee, error) {
	if basisPoints < 0 || basisPoints > 10000 {
		return PercentFee{}, fmt.Errorf("fee basis points must be within 0..10000, got %d", basisPoints)
	}
	return PercentFee{BasisPoints: basisPoints}, nil
}

func (p PercentFee) Fee(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount.Mul(decimal.NewFromInt(int64(p.BasisPoints))).Div(decimal.NewFromInt(10000)).Round(2)
}

// FeeFunc adapts a plain function to FeePolicy.
type FeeFunc func(amount decimal.Decimal) decimal.Decimal

func (f FeeFunc) Fee(amount decimal.Decimal) decimal.Decimal {
	return f(amount)
}
