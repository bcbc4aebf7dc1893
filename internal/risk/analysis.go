package risk

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
)

type FactorStatus string

const (
	FactorVerified FactorStatus = "verified"
	FactorNormal   FactorStatus = "normal"
	FactorWarning  FactorStatus = "warning"
	FactorError    FactorStatus = "error"
)

type Factor struct {
	Category    string       `json:"category"`
	Status      FactorStatus `json:"status"`
	Description string       `json:"description"`
}

// Report is the scam analysis shown next to a product.
type Report struct {
	RiskLevel       enums.RiskLevel        `json:"riskLevel"`
	RiskScore       int                    `json:"riskScore"`
	Shield          enums.ScamShieldStatus `json:"shield"`
	Factors         []Factor               `json:"factors"`
	Recommendations []string               `json:"recommendations"`
	LastUpdated     time.Time              `json:"lastUpdated"`
}

var (
	deepDiscount    = decimal.NewFromFloat(0.4)
	notableDiscount = decimal.NewFromFloat(0.6)
)

// evaluate scores subject from 0 (safe) to 100 and explains each signal.
func evaluate(subject Subject) (int, []Factor) {
	score := 0
	factors := make([]Factor, 0, 4)

	if subject.SellerVerified {
		factors = append(factors, Factor{"Seller Verification", FactorVerified, "Seller has completed identity verification"})
	} else {
		score += 25
		factors = append(factors, Factor{"Seller Verification", FactorWarning, "Seller has not completed identity verification"})
	}

	switch ratio := priceRatio(subject); {
	case ratio == nil:
		factors = append(factors, Factor{"Price Analysis", FactorNormal, "No reference price to compare against"})
	case ratio.LessThan(deepDiscount):
		score += 40
		factors = append(factors, Factor{"Price Analysis", FactorError, "Price is far below the original retail price"})
	case ratio.LessThan(notableDiscount):
		score += 20
		factors = append(factors, Factor{"Price Analysis", FactorWarning, "Price is well below the original retail price"})
	default:
		factors = append(factors, Factor{"Price Analysis", FactorNormal, "Price is within normal market range"})
	}

	switch {
	case subject.SellerTrustScore >= 70:
		factors = append(factors, Factor{"Seller Reputation", FactorNormal, "Seller has a strong trust score"})
	case subject.SellerTrustScore >= 40:
		score += 15
		factors = append(factors, Factor{"Seller Reputation", FactorWarning, "Seller trust score is moderate"})
	default:
		score += 30
		factors = append(factors, Factor{"Seller Reputation", FactorError, "Seller trust score is low"})
	}

	if subject.SellerReviewCount == 0 {
		score += 10
		factors = append(factors, Factor{"Trading History", FactorWarning, "Seller has no completed reviews yet"})
	} else {
		factors = append(factors, Factor{"Trading History", FactorNormal, "Seller has an established review history"})
	}

	if score > 100 {
		score = 100
	}
	return score, factors
}

func priceRatio(subject Subject) *decimal.Decimal {
	if subject.OriginalPrice == nil || !subject.OriginalPrice.IsPositive() {
		return nil
	}
	ratio := subject.Price.Div(*subject.OriginalPrice)
	return &ratio
}

func levelFor(score int) enums.RiskLevel {
	switch {
	case score < 30:
		return enums.RiskLevelLow
	case score < 60:
		return enums.RiskLevelMedium
	default:
		return enums.RiskLevelHigh
	}
}

// clampToLevel keeps the numeric score inside the band of level so a level
// chosen by another scorer never disagrees with the number shown.
func clampToLevel(score int, level enums.RiskLevel) int {
	lo, hi := 0, 29
	switch level {
	case enums.RiskLevelMedium:
		lo, hi = 30, 59
	case enums.RiskLevelHigh:
		lo, hi = 60, 100
	}
	return min(max(score, lo), hi)
}

func recommendationsFor(level enums.RiskLevel) []string {
	recs := []string{
		"Use secure escrow payment for protection",
		"Meet in a public place for exchange",
		"Verify product condition before payment",
	}
	switch level {
	case enums.RiskLevelMedium:
		recs = append(recs, "Ask the seller for additional photos before paying")
	case enums.RiskLevelHigh:
		recs = append(recs,
			"Never pay outside SwapSafe escrow",
			"Report this listing if the details seem inconsistent",
		)
	}
	return recs
}

// Analyze builds a report whose level comes from scorer and whose factors
// come from the rule heuristics.
func Analyze(ctx context.Context, scorer Scorer, subject Subject, now time.Time) (*Report, error) {
	if scorer == nil {
		scorer = RuleScorer{}
	}
	level, err := scorer.Score(ctx, subject)
	if err != nil {
		return nil, err
	}
	score, factors := evaluate(subject)
	return &Report{
		RiskLevel:       level,
		RiskScore:       clampToLevel(score, level),
		Shield:          enums.ShieldFor(level),
		Factors:         factors,
		Recommendations: recommendationsFor(level),
		LastUpdated:     now.UTC(),
	}, nil
}
