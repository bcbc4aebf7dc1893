package risk

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
)

func decimalPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func TestRuleScorerLevels(t *testing.T) {
	cases := []struct {
		name    string
		subject Subject
		want    enums.RiskLevel
	}{
		{
			name:    "verified seller fair price",
			subject: Subject{Price: decimal.NewFromInt(650), OriginalPrice: decimalPtr(999), SellerVerified: true, SellerTrustScore: 92, SellerReviewCount: 127},
			want:    enums.RiskLevelLow,
		},
		{
			name:    "unverified seller moderate trust",
			subject: Subject{Price: decimal.NewFromInt(280), SellerTrustScore: 55, SellerReviewCount: 23},
			want:    enums.RiskLevelMedium,
		},
		{
			name:    "deep discount from new seller",
			subject: Subject{Price: decimal.NewFromInt(100), OriginalPrice: decimalPtr(1200), SellerTrustScore: 20},
			want:    enums.RiskLevelHigh,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := RuleScorer{}.Score(context.Background(), tc.subject)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestRandomScorerIsDeterministicWithSeed(t *testing.T) {
	a := NewRandomScorer(rand.New(rand.NewSource(3)))
	b := NewRandomScorer(rand.New(rand.NewSource(3)))
	for i := 0; i < 25; i++ {
		la, _ := a.Score(context.Background(), Subject{})
		lb, _ := b.Score(context.Background(), Subject{})
		if la != lb {
			t.Fatalf("iteration %d: %s != %s", i, la, lb)
		}
		if !la.IsValid() {
			t.Fatalf("invalid level %q", la)
		}
	}
}

func TestAnalyzeUsesScorerLevelAndClampsScore(t *testing.T) {
	now := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
	subject := Subject{Price: decimal.NewFromInt(650), SellerVerified: true, SellerTrustScore: 90, SellerReviewCount: 10}

	report, err := Analyze(context.Background(), StaticScorer{Level: enums.RiskLevelHigh}, subject, now)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if report.RiskLevel != enums.RiskLevelHigh || report.Shield != enums.ScamShieldDanger {
		t.Fatalf("unexpected level %s shield %s", report.RiskLevel, report.Shield)
	}
	if report.RiskScore < 60 {
		t.Fatalf("score %d should sit in the high band", report.RiskScore)
	}
	if len(report.Factors) != 4 {
		t.Fatalf("expected 4 factors, got %d", len(report.Factors))
	}
	if len(report.Recommendations) != 5 {
		t.Fatalf("expected high-risk recommendations, got %v", report.Recommendations)
	}
	if !report.LastUpdated.Equal(now) {
		t.Fatalf("unexpected timestamp %s", report.LastUpdated)
	}
}
