package auth

import "github.com/swapsafe/swapsafe-backend/internal/users"

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterRequest is the account creation form.
type RegisterRequest struct {
	FullName        string `json:"fullName" validate:"required,min=2,max=120"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,phone"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	UserType        string `json:"userType" validate:"omitempty,oneof=buyer seller"`
	AgreeTerms      bool   `json:"agreeTerms" validate:"required"`
	AgreePrivacy    bool   `json:"agreePrivacy" validate:"required"`
}

// Session is returned by login and registration. Token is the access JWT the
// client stores; RefreshToken rotates it through /auth/refresh.
type Session struct {
	Token        string         `json:"token"`
	RefreshToken string         `json:"refreshToken"`
	User         *users.UserDTO `json:"user"`
}
