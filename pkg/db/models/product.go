package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
)

// Product is a marketplace listing.
type Product struct {
	ID            uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	SellerID      uuid.UUID              `gorm:"column:seller_id;type:uuid;not null;index"`
	Seller        *User                  `gorm:"foreignKey:SellerID"`
	Title         string                 `gorm:"column:title;not null"`
	Description   string                 `gorm:"column:description;not null;default:''"`
	Category      enums.ProductCategory  `gorm:"column:category;not null;index"`
	Condition     enums.ProductCondition `gorm:"column:condition;not null"`
	Price         decimal.Decimal        `gorm:"column:price;type:numeric(12,2);not null"`
	OriginalPrice *decimal.Decimal       `gorm:"column:original_price;type:numeric(12,2)"`
	IsEcoFriendly bool                   `gorm:"column:is_eco_friendly;not null;default:false"`
	EcoScore      int                    `gorm:"column:eco_score;not null;default:0"`
	Latitude      float64                `gorm:"column:latitude;not null;default:0"`
	Longitude     float64                `gorm:"column:longitude;not null;default:0"`
	Location      string                 `gorm:"column:location;not null;default:''"`
	ImageURL      string                 `gorm:"column:image_url;not null;default:''"`
	Views         int                    `gorm:"column:views;not null;default:0"`
	Favorites     int                    `gorm:"column:favorites;not null;default:0"`
	RiskLevel     enums.RiskLevel        `gorm:"column:risk_level;not null;default:'low'"`
	IsSold        bool                   `gorm:"column:is_sold;not null;default:false"`
	ListedAt      time.Time              `gorm:"column:listed_at;not null;index"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
