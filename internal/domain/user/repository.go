package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/frizerski/booking-api/internal/pkg/database"
)

const usernameConstraint = "users_username_key"

// Repository defines user data access interface
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new user repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create inserts the user and fills ID and CreatedAt
func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (username, password_hash, email, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, user.Username, user.PasswordHash, user.Email, user.Role).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, usernameConstraint) {
			return ErrUsernameAlreadyExists
		}
		return fmt.Errorf("user repository create: %w", err)
	}
	return nil
}

// GetByID returns user by ID, nil when missing
func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getOne(ctx, `SELECT id, username, password_hash, email, role, created_at FROM users WHERE id = $1`, id)
}

// GetByUsername returns user by username, nil when missing
func (r *repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.getOne(ctx, `SELECT id, username, password_hash, email, role, created_at FROM users WHERE username = $1`, username)
}

func (r *repository) getOne(ctx context.Context, query string, arg interface{}) (*User, error) {
	var user User
	if err := r.db.GetContext(ctx, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("user repository get: %w", err)
	}
	return &user, nil
}

// List returns all users, newest first
func (r *repository) List(ctx context.Context) ([]*User, error) {
	var users []*User
	err := r.db.SelectContext(ctx, &users, `
		SELECT id, username, password_hash, email, role, created_at
		FROM users ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("user repository list: %w", err)
	}
	return users, nil
}

// Update writes username, email and role
func (r *repository) Update(ctx context.Context, user *User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET username = $2, email = $3, role = $4
		WHERE id = $1
	`, user.ID, user.Username, user.Email, user.Role)
	if err != nil {
		if database.IsUniqueViolation(err, usernameConstraint) {
			return ErrUsernameAlreadyExists
		}
		return fmt.Errorf("user repository update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdatePassword replaces the stored hash
func (r *repository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("user repository update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes the user and reports whether a row matched
func (r *repository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("user repository delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("user repository delete: %w", err)
	}
	return n > 0, nil
}
