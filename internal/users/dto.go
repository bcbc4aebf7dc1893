package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/swapsafe/swapsafe-backend/pkg/db/models"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials. It is also
// the object clients persist next to their token.
type UserDTO struct {
	ID                uuid.UUID      `json:"id"`
	Email             string         `json:"email"`
	FullName          string         `json:"fullName"`
	Phone             *string        `json:"phone,omitempty"`
	Avatar            *string        `json:"avatar,omitempty"`
	UserType          enums.UserType `json:"userType"`
	TrustScore        int            `json:"trustScore"`
	IsVerified        bool           `json:"isVerified"`
	Rating            float64        `json:"rating"`
	ReviewCount       int            `json:"reviewCount"`
	EcoPoints         int            `json:"ecoPoints"`
	TotalTransactions int            `json:"totalTransactions"`
	LastLoginAt       *time.Time     `json:"lastLoginAt,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	FullName     string
	Phone        *string
	UserType     enums.UserType
	TrustScore   int
	IsVerified   bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:                u.ID,
		Email:             u.Email,
		FullName:          u.FullName,
		Phone:             u.Phone,
		Avatar:            u.AvatarURL,
		UserType:          u.UserType,
		TrustScore:        u.TrustScore,
		IsVerified:        u.IsVerified,
		Rating:            u.Rating.InexactFloat64(),
		ReviewCount:       u.ReviewCount,
		EcoPoints:         u.EcoPoints,
		TotalTransactions: u.TotalTransactions,
		LastLoginAt:       u.LastLoginAt,
		CreatedAt:         u.CreatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	userType := c.UserType
	if userType == "" {
		userType = enums.UserTypeBuyer
	}
	trust := c.TrustScore
	if trust <= 0 {
		trust = 50
	}
	return &models.User{
		ID:           uuid.New(),
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		FullName:     c.FullName,
		Phone:        c.Phone,
		UserType:     userType,
		TrustScore:   trust,
		IsVerified:   c.IsVerified,
	}
}
