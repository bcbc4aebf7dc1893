package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
)

// User represents a marketplace account. Buyers and sellers share the table;
// UserType records the primary role chosen at registration.
type User struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Email             string          `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash      string          `gorm:"column:password_hash;not null"`
	FullName          string          `gorm:"column:full_name;not null"`
	Phone             *string         `gorm:"column:phone"`
	AvatarURL         *string         `gorm:"column:avatar_url"`
	UserType          enums.UserType  `gorm:"column:user_type;not null"`
	TrustScore        int             `gorm:"column:trust_score;not null;default:50"`
	IsVerified        bool            `gorm:"column:is_verified;not null;default:false"`
	Rating            decimal.Decimal `gorm:"column:rating;type:numeric(3,2);not null;default:0"`
	ReviewCount       int             `gorm:"column:review_count;not null;default:0"`
	EcoPoints         int             `gorm:"column:eco_points;not null;default:0"`
	TotalTransactions int             `gorm:"column:total_transactions;not null;default:0"`
	LastLoginAt       *time.Time      `gorm:"column:last_login_at"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
