package transactions

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/swapsafe/swapsafe-backend/internal/listing"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
)

// Filters narrows a viewer's transaction list. Zero values impose no constraint.
type Filters struct {
	Search       string
	Tab          enums.TransactionTab
	Status       enums.TransactionStatus
	Role         enums.TransactionRole
	Amount       enums.AmountBucket
	DateFrom     *time.Time
	DateTo       *time.Time
	HighRiskOnly bool
	Sort         enums.SortKey
	Direction    enums.SortDirection
}

var transactionSorts = listing.NewSorts[Transaction](enums.SortKeyCreatedAt).
	Register(enums.SortKeyCreatedAt, listing.ByTime(func(t Transaction) time.Time { return t.CreatedAt }), enums.SortDesc).
	Register(enums.SortKeyAmount, listing.ByDecimal(func(t Transaction) decimal.Decimal { return t.Amount }), enums.SortDesc)

func (f Filters) predicates() []listing.Filter[Transaction] {
	filters := []listing.Filter[Transaction]{
		listing.ContainsFold(f.Search, func(t Transaction) []string {
			return []string{t.ID, t.Product.Name, t.OtherParty.Name}
		}),
		listing.When(f.Tab != "" && f.Tab != enums.TransactionTabAll, func(t Transaction) bool {
			return f.Tab.Includes(t.Status)
		}),
		listing.Equals(f.Status, func(t Transaction) enums.TransactionStatus { return t.Status }),
		listing.Equals(f.Role, func(t Transaction) enums.TransactionRole { return t.UserRole }),
		listing.When(f.HighRiskOnly, func(t Transaction) bool { return t.AIScamRisk == enums.RiskLevelHigh }),
	}
	if min, max, ok := f.Amount.Bounds(); ok {
		lower := decimal.NewFromFloat(min)
		var upper *decimal.Decimal
		if max != nil {
			v := decimal.NewFromFloat(*max)
			upper = &v
		}
		filters = append(filters, listing.DecimalRange(&lower, upper, func(t Transaction) decimal.Decimal { return t.Amount }))
	}
	var to *time.Time
	if f.DateTo != nil {
		end := listing.EndOfDay(*f.DateTo)
		to = &end
	}
	filters = append(filters, listing.TimeRange(f.DateFrom, to, func(t Transaction) time.Time { return t.CreatedAt }))
	return filters
}

// ApplyFilters filters and orders items without modifying them.
func ApplyFilters(items []Transaction, f Filters) ([]Transaction, error) {
	cmp, err := transactionSorts.Resolve(f.Sort, f.Direction)
	if err != nil {
		return nil, err
	}
	return listing.Apply(items, f.predicates(), cmp), nil
}

// TabCounts counts items per list tab.
func TabCounts(items []Transaction) map[enums.TransactionTab]int {
	counts := make(map[enums.TransactionTab]int, len(enums.TransactionTabs()))
	for _, tab := range enums.TransactionTabs() {
		counts[tab] = 0
	}
	for _, t := range items {
		for _, tab := range enums.TransactionTabs() {
			if tab.Includes(t.Status) {
				counts[tab]++
			}
		}
	}
	return counts
}
