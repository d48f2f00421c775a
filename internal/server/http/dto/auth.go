package dto

import "time"

// RegisterRequest describes buyer sign-up payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest describes buyer sign-in payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLoginRequest describes admin sign-in payload.
type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries an issued session token.
type TokenResponse struct {
	Token string `json:"token"`
}

// ProfileResponse describes the signed-in buyer.
type ProfileResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateProfileRequest changes display fields of the buyer.
type UpdateProfileRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}
