package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"food-delivery/internal/model"
	"food-delivery/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 20
	minPasswordLength = 6
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// authService implements AuthService with bcrypt password hashing.
type authService struct {
	userRepo repository.UserRepository
	logger   zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository, logger zerolog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// Register creates a new user account with a hashed password.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if err := validateRegisterRequest(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Address:      req.Address,
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, model.ErrDuplicateUser) {
			return nil, model.ErrDuplicateUser
		}
		s.logger.Error().Err(err).Str("username", req.Username).Msg("failed to register user")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	user.UserID = userID
	s.logger.Info().Int64("user_id", userID).Str("username", req.Username).Msg("user registered")

	return user, nil
}

// Login verifies credentials and returns the matching user. Unknown users
// and wrong passwords both map to the same error so callers cannot probe for
// registered usernames.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	if req == nil || req.Username == "" || req.Password == "" {
		return nil, model.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		s.logger.Error().Err(err).Str("username", req.Username).Msg("failed to look up user")
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("username", req.Username).Msg("password mismatch")
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// validateRegisterRequest validates the registration request.
func validateRegisterRequest(req *model.RegisterRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeMissingField, "Register request is required")
	}

	if len(req.Username) < minUsernameLength || len(req.Username) > maxUsernameLength {
		return model.NewDomainError(model.ErrCodeMissingField,
			fmt.Sprintf("Username must be %d-%d characters", minUsernameLength, maxUsernameLength))
	}

	if !emailPattern.MatchString(req.Email) {
		return model.NewDomainError(model.ErrCodeMissingField, "Invalid email address")
	}

	if len(req.Password) < minPasswordLength {
		return model.NewDomainError(model.ErrCodeMissingField,
			fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}

	return nil
}
