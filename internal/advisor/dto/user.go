package dto

import (
	"time"
)

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Budget   float64 `json:"budget" validate:"omitempty,gt=0"`
}

// LoginRequest exchanges credentials for a token.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries an issued JWT.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Budget    float64   `json:"budget"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateBudgetRequest changes the budget used for position sizing.
type UpdateBudgetRequest struct {
	Budget float64 `json:"budget" validate:"required,gt=0"`
}
