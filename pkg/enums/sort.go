package enums

import "fmt"

// SortKey is the fixed set of orderings exposed by list endpoints.
type SortKey string

const (
	SortKeyRelevance  SortKey = "relevance"
	SortKeyPrice      SortKey = "price"
	SortKeyDistance   SortKey = "distance"
	SortKeyTrustScore SortKey = "trust_score"
	SortKeyEcoScore   SortKey = "eco_score"
	SortKeyCreatedAt  SortKey = "created_at"
	SortKeyAmount     SortKey = "amount"
)

var validSortKeys = []SortKey{
	SortKeyRelevance,
	SortKeyPrice,
	SortKeyDistance,
	SortKeyTrustScore,
	SortKeyEcoScore,
	SortKeyCreatedAt,
	SortKeyAmount,
}

func (k SortKey) IsValid() bool {
	for _, candidate := range validSortKeys {
		if candidate == k {
			return true
		}
	}
	return false
}

func ParseSortKey(value string) (SortKey, error) {
	for _, candidate := range validSortKeys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort key %q", value)
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

func ParseSortDirection(value string) (SortDirection, error) {
	switch SortDirection(value) {
	case SortAsc, SortDesc:
		return SortDirection(value), nil
	}
	return "", fmt.Errorf("invalid sort direction %q", value)
}
