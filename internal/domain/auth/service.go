package auth

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/frizerski/booking-api/internal/domain/user"
	"github.com/frizerski/booking-api/internal/pkg/jwt"
	"github.com/frizerski/booking-api/internal/pkg/password"
)

// UserReader is the part of the user repository login needs
type UserReader interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

// Service handles authentication business logic
type Service struct {
	users      UserReader
	jwtService *jwt.Service
	dummyHash  string
}

// NewService creates auth service
func NewService(users UserReader, jwtService *jwt.Service) *Service {
	// compared against for unknown usernames so both failures cost one bcrypt check
	dummy, _ := password.Hash("not-a-real-password")
	return &Service{users: users, jwtService: jwtService, dummyHash: dummy}
}

// Login checks credentials and issues an access token. Unknown usernames and
// wrong passwords return the same error.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	username := strings.TrimSpace(req.Username)

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		password.Verify(req.Password, s.dummyHash)
		log.Info().Str("username", username).Msg("Login failed")
		return nil, ErrInvalidCredentials
	}
	if !password.Verify(req.Password, u.PasswordHash) {
		log.Info().Str("username", username).Msg("Login failed")
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateAccessToken(u.ID, u.Username, string(u.Role))
	if err != nil {
		return nil, err
	}

	log.Info().Int64("user_id", u.ID).Str("role", string(u.Role)).Msg("User logged in")
	return &LoginResponse{
		Token:     token,
		ExpiresIn: int(s.jwtService.TTL().Seconds()),
		User:      user.ResponseFromEntity(u),
	}, nil
}

// Me returns the user behind a token
func (s *Service) Me(ctx context.Context, userID int64) (*user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}
