package user

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/sneakpeak/storefront/internal/domain"
	"github.com/sneakpeak/storefront/internal/pkg/auth"
	"github.com/sneakpeak/storefront/internal/pkg/logger"
	pkgvalidator "github.com/sneakpeak/storefront/internal/pkg/validator"
)

// Service handles account registration and authentication
type Service struct {
	repo     domain.UserRepository
	tokens   *auth.TokenManager
	validate *validator.Validate
	logger   *logger.Logger
}

// NewService creates a new user service
func NewService(repo domain.UserRepository, tokens *auth.TokenManager, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		validate: pkgvalidator.Get(),
		logger:   log,
	}
}

// Register creates an account and returns it with a fresh token
func (s *Service) Register(ctx context.Context, user *domain.User, password string) (string, error) {
	if err := s.validate.Struct(user); err != nil {
		s.logger.Error("User validation failed", err)
		return "", domain.ErrInvalidInput
	}
	if len(password) < 6 {
		return "", domain.ErrInvalidInput
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error("Failed to hash password", err)
		return "", err
	}
	user.PasswordHash = hash

	if err := s.repo.Create(ctx, user); err != nil {
		if err == domain.ErrAlreadyExists {
			s.logger.Debugf("Email already in use: %s", user.Email)
		} else {
			s.logger.Error("Failed to create user", err)
		}
		return "", err
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		s.logger.Error("Failed to generate token", err)
		return "", err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User registered successfully")

	return token, nil
}

// Login verifies credentials and returns the user with a fresh token.
// A wrong password and an unknown email both read as invalid input, so
// the response never confirms which accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, "", domain.ErrInvalidInput
		}
		s.logger.Error("Failed to look up user", err)
		return nil, "", err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", domain.ErrInvalidInput
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		s.logger.Error("Failed to generate token", err)
		return nil, "", err
	}

	return user, token, nil
}

// GetByID retrieves a user profile
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == domain.ErrNotFound {
			s.logger.Debugf("User not found: %s", id)
		} else {
			s.logger.Error("Failed to get user", err)
		}
		return nil, err
	}

	return user, nil
}

// List retrieves all users for the admin view
func (s *Service) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list users", err)
		return nil, err
	}

	return users, nil
}
