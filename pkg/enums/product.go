package enums

import "fmt"

// ProductCategory represents the canonical marketplace categories.
type ProductCategory string

const (
	ProductCategoryElectronics ProductCategory = "electronics"
	ProductCategoryClothing    ProductCategory = "clothing"
	ProductCategoryHome        ProductCategory = "home"
	ProductCategorySports      ProductCategory = "sports"
	ProductCategoryBooks       ProductCategory = "books"
	ProductCategoryAutomotive  ProductCategory = "automotive"
	ProductCategoryToys        ProductCategory = "toys"
	ProductCategoryBeauty      ProductCategory = "beauty"
)

var validProductCategories = []ProductCategory{
	ProductCategoryElectronics,
	ProductCategoryClothing,
	ProductCategoryHome,
	ProductCategorySports,
	ProductCategoryBooks,
	ProductCategoryAutomotive,
	ProductCategoryToys,
	ProductCategoryBeauty,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ProductCondition is the seller-declared item condition.
type ProductCondition string

const (
	ProductConditionNew     ProductCondition = "new"
	ProductConditionLikeNew ProductCondition = "like-new"
	ProductConditionGood    ProductCondition = "good"
	ProductConditionFair    ProductCondition = "fair"
	ProductConditionPoor    ProductCondition = "poor"
)

var validProductConditions = []ProductCondition{
	ProductConditionNew,
	ProductConditionLikeNew,
	ProductConditionGood,
	ProductConditionFair,
	ProductConditionPoor,
}

func (c ProductCondition) IsValid() bool {
	for _, candidate := range validProductConditions {
		if candidate == c {
			return true
		}
	}
	return false
}

func ParseProductCondition(value string) (ProductCondition, error) {
	for _, candidate := range validProductConditions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product condition %q", value)
}
