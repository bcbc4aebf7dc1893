package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
)

// Transaction is an escrow-backed order between a buyer and a seller. The
// viewer-relative role is derived at read time, never stored.
type Transaction struct {
	ID             string                   `gorm:"column:id;primaryKey"`
	ProductID      *uuid.UUID               `gorm:"column:product_id;type:uuid"`
	ProductName    string                   `gorm:"column:product_name;not null"`
	ProductImage   string                   `gorm:"column:product_image;not null;default:''"`
	BuyerID        uuid.UUID                `gorm:"column:buyer_id;type:uuid;not null;index"`
	Buyer          *User                    `gorm:"foreignKey:BuyerID"`
	SellerID       uuid.UUID                `gorm:"column:seller_id;type:uuid;not null;index"`
	Seller         *User                    `gorm:"foreignKey:SellerID"`
	Amount         decimal.Decimal          `gorm:"column:amount;type:numeric(12,2);not null"`
	Fee            decimal.Decimal          `gorm:"column:fee;type:numeric(12,2);not null"`
	Status         enums.TransactionStatus  `gorm:"column:status;not null;index"`
	EscrowStatus   enums.EscrowStatus       `gorm:"column:escrow_status;not null"`
	RiskLevel      enums.RiskLevel          `gorm:"column:risk_level;not null"`
	BranchedFrom   *enums.TransactionStatus `gorm:"column:branched_from"`
	PaymentMethod  string                   `gorm:"column:payment_method;not null;default:''"`
	TrackingNumber *string                  `gorm:"column:tracking_number"`
	Notes          *string                  `gorm:"column:notes"`
	CreatedAt      time.Time                `gorm:"column:created_at;not null;index"`
	UpdatedAt      time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// TransactionSequence hands out the per-year counter behind SW-<year>-<n> ids.
type TransactionSequence struct {
	Year      int   `gorm:"column:year;primaryKey;autoIncrement:false"`
	LastValue int64 `gorm:"column:last_value;not null"`
}
