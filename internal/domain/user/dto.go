package user

import (
	"database/sql"
	"strings"
	"time"
)

// CreateRequest registers an account. Role is honoured only for admins.
type CreateRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Role     string `json:"role" validate:"omitempty,role"`
}

// UpdateRequest changes profile fields; nil fields are kept
type UpdateRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=64"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Role     *string `json:"role" validate:"omitempty,role"`
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
}

// Response is the public user representation
type Response struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ResponseFromEntity converts a user, never exposing the hash
func ResponseFromEntity(u *User) *Response {
	return &Response{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email.String,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// ListResponse converts a slice, never returning nil
func ListResponse(users []*User) []*Response {
	out := make([]*Response, 0, len(users))
	for _, u := range users {
		out = append(out, ResponseFromEntity(u))
	}
	return out
}

func nullEmail(email string) sql.NullString {
	email = strings.ToLower(strings.TrimSpace(email))
	return sql.NullString{String: email, Valid: email != ""}
}
