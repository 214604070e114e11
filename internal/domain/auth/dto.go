package auth

import "github.com/deskly/deskly-api/internal/domain/user"

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	Name       string `json:"name" validate:"required,min=2,max=200"`
	EmployeeID string `json:"employee_id" validate:"omitempty,max=50"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenPair is the issued token set
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthResponse bundles the user profile with tokens
type AuthResponse struct {
	User   *user.Profile `json:"user"`
	Tokens TokenPair     `json:"tokens"`
}
