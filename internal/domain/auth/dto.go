package auth

import "github.com/frizerski/booking-api/internal/domain/user"

// LoginRequest is the body of POST /users/login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the access token and the logged in user
type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresIn int            `json:"expires_in"`
	User      *user.Response `json:"user"`
}
