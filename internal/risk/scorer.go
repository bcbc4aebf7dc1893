// Package risk labels products and transactions with a scam-risk level.
// Scorers are injected so handlers and tests can swap the heuristic for a
// fixed or seeded source.
package risk

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/swapsafe/swapsafe-backend/pkg/db/models"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
)

// Subject is what a scorer looks at.
type Subject struct {
	Title             string
	Price             decimal.Decimal
	OriginalPrice     *decimal.Decimal
	SellerVerified    bool
	SellerTrustScore  int
	SellerReviewCount int
}

// SubjectFromProduct builds a Subject; the product's Seller must be loaded
// for the seller signals to count.
func SubjectFromProduct(p models.Product) Subject {
	s := Subject{
		Title:         p.Title,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
	}
	if p.Seller != nil {
		s.SellerVerified = p.Seller.IsVerified
		s.SellerTrustScore = p.Seller.TrustScore
		s.SellerReviewCount = p.Seller.ReviewCount
	}
	return s
}

// Scorer assigns a risk level to a subject.
type Scorer interface {
	Score(ctx context.Context, subject Subject) (enums.RiskLevel, error)
}

// StaticScorer always returns Level.
type StaticScorer struct {
	Level enums.RiskLevel
}

func (s StaticScorer) Score(context.Context, Subject) (enums.RiskLevel, error) {
	if !s.Level.IsValid() {
		return enums.RiskLevelLow, nil
	}
	return s.Level, nil
}

// RuleScorer derives the level from seller and price signals.
type RuleScorer struct{}

func (RuleScorer) Score(_ context.Context, subject Subject) (enums.RiskLevel, error) {
	score, _ := evaluate(subject)
	return levelFor(score), nil
}

// RandomScorer picks a level at random with the given weights for low and
// medium; the remainder is high.
type RandomScorer struct {
	mu        sync.Mutex
	rand      *rand.Rand
	lowWeight float64
	midWeight float64
}

func NewRandomScorer(src *rand.Rand) *RandomScorer {
	if src == nil {
		src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RandomScorer{rand: src, lowWeight: 0.7, midWeight: 0.2}
}

func (r *RandomScorer) Score(context.Context, Subject) (enums.RiskLevel, error) {
	r.mu.Lock()
	roll := r.rand.Float64()
	r.mu.Unlock()
	switch {
	case roll < r.lowWeight:
		return enums.RiskLevelLow, nil
	case roll < r.lowWeight+r.midWeight:
		return enums.RiskLevelMedium, nil
	default:
		return enums.RiskLevelHigh, nil
	}
}

// NewScorer maps a configured name to a scorer. Unknown names get RuleScorer.
func NewScorer(name string) Scorer {
	switch name {
	case "random":
		return NewRandomScorer(nil)
	case "static":
		return StaticScorer{Level: enums.RiskLevelLow}
	default:
		return RuleScorer{}
	}
}
