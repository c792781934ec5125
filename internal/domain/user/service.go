package user

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/frizerski/booking-api/internal/pkg/password"
)

// Actor is the authenticated caller of a user operation
type Actor struct {
	ID      int64
	IsAdmin bool
}

// Service handles user business logic
type Service struct {
	repo Repository
}

// NewService creates user service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates an account. Only admins may choose a role; everyone
// else gets RoleUser.
func (s *Service) Register(ctx context.Context, actor Actor, req *CreateRequest) (*User, error) {
	username := strings.TrimSpace(req.Username)

	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameAlreadyExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	role := RoleUser
	if actor.IsAdmin && req.Role != "" {
		role = Role(req.Role)
	}

	u := &User{
		Username:     username,
		PasswordHash: hash,
		Email:        nullEmail(req.Email),
		Role:         role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	log.Info().Int64("user_id", u.ID).Str("username", u.Username).Str("role", string(u.Role)).Msg("User registered")
	return u, nil
}

// List returns all users
func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

// GetByID returns user or ErrUserNotFound
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// Update lets users edit themselves and admins edit anyone.
// Role changes are admin-only.
func (s *Service) Update(ctx context.Context, actor Actor, id int64, req *UpdateRequest) (*User, error) {
	if !actor.IsAdmin && actor.ID != id {
		return nil, ErrForbidden
	}
	if req.Role != nil && !actor.IsAdmin {
		return nil, ErrForbidden
	}

	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		u.Username = strings.TrimSpace(*req.Username)
	}
	if req.Email != nil {
		u.Email = nullEmail(*req.Email)
	}
	if req.Role != nil {
		u.Role = Role(*req.Role)
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	if req.Password != nil {
		hash, err := password.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	log.Info().Int64("user_id", id).Int64("actor_id", actor.ID).Msg("User updated")
	return u, nil
}

// Delete removes a user
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}
	log.Info().Int64("user_id", id).Msg("User deleted")
	return nil
}

// EnsureAdmin creates the admin account, or resets its password, email and
// role when the username already exists. Returns true when a new row was made.
func (s *Service) EnsureAdmin(ctx context.Context, username, pass, email string) (*User, bool, error) {
	username = strings.TrimSpace(username)

	hash, err := password.Hash(pass)
	if err != nil {
		return nil, false, err
	}

	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, false, err
	}

	if u == nil {
		u = &User{
			Username:     username,
			PasswordHash: hash,
			Email:        nullEmail(email),
			Role:         RoleAdmin,
		}
		if err := s.repo.Create(ctx, u); err != nil {
			return nil, false, err
		}
		return u, true, nil
	}

	u.Email = nullEmail(email)
	u.Role = RoleAdmin
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, false, err
	}
	if err := s.repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		return nil, false, err
	}
	u.PasswordHash = hash
	return u, false, nil
}
