package product

import (
	"cmp"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/swapsafe/swapsafe-backend/internal/listing"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
	"github.com/swapsafe/swapsafe-backend/pkg/pagination"
)

// ProductListFilters describe the supported filter knobs for the browse endpoint.
type ProductListFilters struct {
	Keyword         string
	Category        enums.ProductCategory
	PriceMin        *decimal.Decimal
	PriceMax        *decimal.Decimal
	Conditions      []enums.ProductCondition
	TrustScoreMin   int
	MaxDistance     *float64
	EcoFriendly     bool
	VerifiedSellers bool
	ScamShield      bool
}

// ListProductsInput captures the inputs needed to filter, sort and page listings.
type ListProductsInput struct {
	Filters    ProductListFilters
	Sort       enums.SortKey
	Direction  enums.SortDirection
	Pagination pagination.Params
	Origin     *Coordinates
}

var productSorts = listing.NewSorts[ProductDTO](enums.SortKeyRelevance).
	Register(enums.SortKeyRelevance, listing.By(func(p ProductDTO) int { return p.Views + p.Favorites }), enums.SortDesc).
	Register(enums.SortKeyPrice, listing.ByDecimal(func(p ProductDTO) decimal.Decimal { return p.Price }), enums.SortAsc).
	Register(enums.SortKeyDistance, compareDistance, enums.SortAsc).
	Register(enums.SortKeyTrustScore, listing.By(func(p ProductDTO) int { return p.Seller.TrustScore }), enums.SortDesc).
	Register(enums.SortKeyEcoScore, listing.By(func(p ProductDTO) int { return p.EcoScore }), enums.SortDesc).
	Register(enums.SortKeyCreatedAt, listing.ByTime(func(p ProductDTO) time.Time { return p.ListedAt }), enums.SortDesc)

// compareDistance treats an unknown distance as farther than any known one.
func compareDistance(a, b ProductDTO) int {
	return cmp.Compare(distanceOrInf(a), distanceOrInf(b))
}

func distanceOrInf(p ProductDTO) float64 {
	if p.Distance == nil {
		return math.Inf(1)
	}
	return *p.Distance
}

func (f ProductListFilters) predicates() []listing.Filter[ProductDTO] {
	var trustMin *int
	if f.TrustScoreMin > 0 {
		trustMin = &f.TrustScoreMin
	}
	return []listing.Filter[ProductDTO]{
		listing.ContainsFold(f.Keyword, func(p ProductDTO) []string { return []string{p.Title} }),
		listing.Equals(f.Category, func(p ProductDTO) enums.ProductCategory { return p.Category }),
		listing.DecimalRange(f.PriceMin, f.PriceMax, func(p ProductDTO) decimal.Decimal { return p.Price }),
		listing.OneOf(f.Conditions, func(p ProductDTO) enums.ProductCondition { return p.Condition }),
		listing.NumberRange(trustMin, nil, func(p ProductDTO) int { return p.Seller.TrustScore }),
		listing.When(f.MaxDistance != nil, func(p ProductDTO) bool {
			return p.Distance == nil || *p.Distance <= *f.MaxDistance
		}),
		listing.When(f.EcoFriendly, func(p ProductDTO) bool { return p.IsEcoFriendly }),
		listing.When(f.VerifiedSellers, func(p ProductDTO) bool { return p.Seller.IsVerified }),
		listing.When(f.ScamShield, func(p ProductDTO) bool { return p.ScamShield == enums.ScamShieldSafe }),
	}
}

// Browse filters, sorts and pages already mapped listings.
func Browse(items []ProductDTO, input ListProductsInput) (pagination.Page[ProductDTO], error) {
	order, err := productSorts.Resolve(input.Sort, input.Direction)
	if err != nil {
		return pagination.Page[ProductDTO]{}, err
	}
	return pagination.Slice(listing.Apply(items, input.Filters.predicates(), order), input.Pagination), nil
}
