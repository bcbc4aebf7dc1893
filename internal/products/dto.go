package product

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swapsafe/swapsafe-backend/internal/risk"
	"github.com/swapsafe/swapsafe-backend/pkg/db/models"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
)

// SellerSummary is the seller block shown on product cards.
type SellerSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Avatar      string    `json:"avatar"`
	TrustScore  int       `json:"trustScore"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"reviewCount"`
	IsVerified  bool      `json:"isVerified"`
}

// ProductDTO is a listing as returned by the browse endpoints. Distance is in
// miles and is nil when the viewer location is unknown.
type ProductDTO struct {
	ID            uuid.UUID              `json:"id"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	Category      enums.ProductCategory  `json:"category"`
	Condition     enums.ProductCondition `json:"condition"`
	Price         decimal.Decimal        `json:"price"`
	OriginalPrice *decimal.Decimal       `json:"originalPrice"`
	Image         string                 `json:"image"`
	Location      string                 `json:"location"`
	Distance      *float64               `json:"distance"`
	IsEcoFriendly bool                   `json:"isEcoFriendly"`
	EcoScore      int                    `json:"ecoScore"`
	Views         int                    `json:"views"`
	Favorites     int                    `json:"favorites"`
	ListedAt      time.Time              `json:"listedAt"`
	RiskLevel     enums.RiskLevel        `json:"riskLevel"`
	ScamShield    enums.ScamShieldStatus `json:"scamShield"`
	Seller        SellerSummary          `json:"seller"`
}

// ProductDetail adds the scam analysis and related listings.
type ProductDetail struct {
	Product  ProductDTO   `json:"product"`
	Analysis *risk.Report `json:"scamAnalysis"`
	Related  []ProductDTO `json:"relatedProducts"`
}

// FromModel maps a product row to its DTO, computing distance from origin
// when one is given.
func FromModel(p models.Product, origin *Coordinates) ProductDTO {
	dto := ProductDTO{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Category:      p.Category,
		Condition:     p.Condition,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Image:         p.ImageURL,
		Location:      p.Location,
		IsEcoFriendly: p.IsEcoFriendly,
		EcoScore:      p.EcoScore,
		Views:         p.Views,
		Favorites:     p.Favorites,
		ListedAt:      p.ListedAt,
		RiskLevel:     p.RiskLevel,
		ScamShield:    enums.ShieldFor(p.RiskLevel),
	}
	if origin != nil {
		d := math.Round(DistanceMiles(*origin, Coordinates{Latitude: p.Latitude, Longitude: p.Longitude})*10) / 10
		dto.Distance = &d
	}
	if p.Seller != nil {
		avatar := ""
		if p.Seller.AvatarURL != nil {
			avatar = *p.Seller.AvatarURL
		}
		dto.Seller = SellerSummary{
			ID:          p.Seller.ID,
			Name:        p.Seller.FullName,
			Avatar:      avatar,
			TrustScore:  p.Seller.TrustScore,
			Rating:      p.Seller.Rating.InexactFloat64(),
			ReviewCount: p.Seller.ReviewCount,
			IsVerified:  p.Seller.IsVerified,
		}
	}
	return dto
}
