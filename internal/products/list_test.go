package product

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
	"github.com/swapsafe/swapsafe-backend/pkg/pagination"
)

func sampleProducts() []ProductDTO {
	base := time.Date(2024, 1, 16, 12, 0, 0, 0, time.UTC)
	dist := func(v float64) *float64 { return &v }
	return []ProductDTO{
		{ID: uuid.New(), Title: "iPhone 14 Pro Max - 256GB Space Black", Price: decimal.NewFromInt(899), Condition: enums.ProductConditionLikeNew, Category: enums.ProductCategoryElectronics, IsEcoFriendly: true, EcoScore: 80, Distance: dist(2.3), Views: 156, Favorites: 23, ListedAt: base.Add(-48 * time.Hour), ScamShield: enums.ScamShieldSafe, Seller: SellerSummary{TrustScore: 96, IsVerified: true}},
		{ID: uuid.New(), Title: "MacBook Air M2", Price: decimal.NewFromInt(1099), Condition: enums.ProductConditionNew, Category: enums.ProductCategoryElectronics, EcoScore: 40, Distance: dist(0.8), Views: 89, Favorites: 12, ListedAt: base.Add(-24 * time.Hour), ScamShield: enums.ScamShieldSafe, Seller: SellerSummary{TrustScore: 92, IsVerified: true}},
		{ID: uuid.New(), Title: "Sony WH-1000XM4 Headphones", Price: decimal.NewFromInt(199), Condition: enums.ProductConditionGood, Category: enums.ProductCategoryElectronics, IsEcoFriendly: true, EcoScore: 75, Distance: dist(5.2), Views: 234, Favorites: 45, ListedAt: base.Add(-72 * time.Hour), ScamShield: enums.ScamShieldSafe, Seller: SellerSummary{TrustScore: 98, IsVerified: true}},
		{ID: uuid.New(), Title: "Nintendo Switch OLED Console", Price: decimal.NewFromInt(299), Condition: enums.ProductConditionLikeNew, Category: enums.ProductCategoryToys, EcoScore: 30, Distance: dist(1.5), Views: 178, Favorites: 34, ListedAt: base.Add(-96 * time.Hour), ScamShield: enums.ScamShieldWarning, Seller: SellerSummary{TrustScore: 88}},
		{ID: uuid.New(), Title: "Canon EOS R5 Body", Price: decimal.NewFromInt(2899), Condition: enums.ProductConditionGood, Category: enums.ProductCategoryElectronics, IsEcoFriendly: true, EcoScore: 70, Views: 67, Favorites: 8, ListedAt: base.Add(-168 * time.Hour), ScamShield: enums.ScamShieldSafe, Seller: SellerSummary{TrustScore: 94, IsVerified: true}},
		{ID: uuid.New(), Title: "Tesla Model 3 Wheels", Price: decimal.NewFromInt(1200), Condition: enums.ProductConditionFair, Category: enums.ProductCategoryAutomotive, IsEcoFriendly: true, EcoScore: 90, Distance: dist(8.3), Views: 145, Favorites: 19, ListedAt: base.Add(-120 * time.Hour), ScamShield: enums.ScamShieldSafe, Seller: SellerSummary{TrustScore: 90, IsVerified: true}},
	}
}

func allItems(input ListProductsInput) ListProductsInput {
	input.Pagination = pagination.Params{Page: 1, PageSize: pagination.MaxPageSize}
	return input
}

func ids(items []ProductDTO) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID.String())
	}
	sort.Strings(out)
	return out
}

func TestBrowseDefaultFiltersKeepMembership(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for round := 0; round < 20; round++ {
		items := sampleProducts()
		rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
		page, err := Browse(items, allItems(ListProductsInput{Sort: enums.SortKeyRelevance, Direction: enums.SortDesc}))
		if err != nil {
			t.Fatalf("browse: %v", err)
		}
		got, want := ids(page.Items), ids(items)
		if len(got) != len(want) {
			t.Fatalf("expected %d items, got %d", len(want), len(got))
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("membership changed at %d", i)
			}
		}
	}
}

func TestBrowsePriceRangeBounds(t *testing.T) {
	min := decimal.NewFromInt(299)
	max := decimal.NewFromInt(1099)

	page, _ := Browse(sampleProducts(), allItems(ListProductsInput{Filters: ProductListFilters{PriceMin: &min, PriceMax: &max}}))
	if len(page.Items) != 3 {
		t.Fatalf("expected 3 items within both bounds, got %d", len(page.Items))
	}
	for _, p := range page.Items {
		if p.Price.LessThan(min) || p.Price.GreaterThan(max) {
			t.Fatalf("price %s outside [%s, %s]", p.Price, min, max)
		}
	}

	page, _ = Browse(sampleProducts(), allItems(ListProductsInput{Filters: ProductListFilters{PriceMin: &min}}))
	for _, p := range page.Items {
		if p.Price.LessThan(min) {
			t.Fatalf("lower bound violated by %s", p.Price)
		}
	}
	if len(page.Items) != 5 {
		t.Fatalf("expected 5 items with only a lower bound, got %d", len(page.Items))
	}
}

func TestBrowseCombinedFilters(t *testing.T) {
	maxDistance := 6.0
	input := allItems(ListProductsInput{Filters: ProductListFilters{
		Keyword:         "sony",
		Conditions:      []enums.ProductCondition{enums.ProductConditionGood},
		TrustScoreMin:   95,
		MaxDistance:     &maxDistance,
		EcoFriendly:     true,
		VerifiedSellers: true,
		ScamShield:      true,
	}})
	page, err := Browse(sampleProducts(), input)
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Title != "Sony WH-1000XM4 Headphones" {
		t.Fatalf("unexpected result %+v", page.Items)
	}

	page, _ = Browse(sampleProducts(), allItems(ListProductsInput{Filters: ProductListFilters{ScamShield: true}}))
	for _, p := range page.Items {
		if p.ScamShield != enums.ScamShieldSafe {
			t.Fatalf("scam shield filter let %s through", p.Title)
		}
	}
}

func TestBrowseSorts(t *testing.T) {
	cases := []struct {
		key   enums.SortKey
		dir   enums.SortDirection
		first string
	}{
		{enums.SortKeyRelevance, "", "Sony WH-1000XM4 Headphones"},
		{enums.SortKeyPrice, enums.SortAsc, "Sony WH-1000XM4 Headphones"},
		{enums.SortKeyPrice, enums.SortDesc, "Canon EOS R5 Body"},
		{enums.SortKeyDistance, "", "MacBook Air M2"},
		{enums.SortKeyTrustScore, "", "Sony WH-1000XM4 Headphones"},
		{enums.SortKeyEcoScore, "", "Tesla Model 3 Wheels"},
		{enums.SortKeyCreatedAt, enums.SortDesc, "MacBook Air M2"},
		{enums.SortKeyCreatedAt, enums.SortAsc, "Canon EOS R5 Body"},
	}
	for _, tc := range cases {
		page, err := Browse(sampleProducts(), allItems(ListProductsInput{Sort: tc.key, Direction: tc.dir}))
		if err != nil {
			t.Fatalf("%s: %v", tc.key, err)
		}
		if page.Items[0].Title != tc.first {
			t.Fatalf("%s %s: expected %q first, got %q", tc.key, tc.dir, tc.first, page.Items[0].Title)
		}
	}

	page, _ := Browse(sampleProducts(), allItems(ListProductsInput{Sort: enums.SortKeyDistance}))
	if last := page.Items[len(page.Items)-1]; last.Distance != nil {
		t.Fatalf("unknown distance should sort last, got %q", last.Title)
	}
	if _, err := Browse(sampleProducts(), ListProductsInput{Sort: enums.SortKeyAmount}); err == nil {
		t.Fatal("expected unsupported sort key error")
	}
}

func TestBrowsePaging(t *testing.T) {
	page, _ := Browse(sampleProducts(), ListProductsInput{Pagination: pagination.Params{Page: 1, PageSize: 4}})
	if len(page.Items) != 4 || !page.HasMore || page.Total != 6 {
		t.Fatalf("unexpected first page %+v", page)
	}
	page, _ = Browse(sampleProducts(), ListProductsInput{Pagination: pagination.Params{Page: 2, PageSize: 4}})
	if len(page.Items) != 2 || page.HasMore {
		t.Fatalf("unexpected second page %+v", page)
	}
}

func TestDistanceMiles(t *testing.T) {
	sf := Coordinates{Latitude: 37.7749, Longitude: -122.4194}
	oakland := Coordinates{Latitude: 37.8044, Longitude: -122.2712}
	d := DistanceMiles(sf, oakland)
	if d < 8 || d > 9 {
		t.Fatalf("expected about 8.4 miles, got %.2f", d)
	}
	if DistanceMiles(sf, sf) != 0 {
		t.Fatal("distance to self must be zero")
	}
}
