package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	Email    string
	UserType enums.UserType
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to clients. Field names
// match what browser clients decode from the payload segment.
type AccessTokenClaims struct {
	UserID   uuid.UUID      `json:"userId"`
	Email    string         `json:"email"`
	UserType enums.UserType `json:"userType"`
	jwt.RegisteredClaims
}
