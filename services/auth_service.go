package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/football-cup/models"
	"github.com/Dosada05/football-cup/repositories"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var ErrPasswordTooShort = errors.New("password is too short")

type LoginInput struct {
	Email    string
	Password string
}

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*models.User, error)
	EnsureAdmin(ctx context.Context, email, password string) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

func NewAuthService(userRepo repositories.UserRepository, logger *slog.Logger) AuthService {
	if logger == nil {
		logger = discardLogger()
	}
	return &authService{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// EnsureAdmin creates the bootstrap operator account unless the email is
// already registered.
func (s *authService) EnsureAdmin(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: admin email is required", ErrValidationFailed)
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		existing.PasswordHash = ""
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up admin account: %w", err)
	}

	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleAdmin,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, handleRepositoryError(err, "user", 0)
	}

	s.logger.InfoContext(ctx, "admin account created", slog.Int("user_id", user.ID))
	user.PasswordHash = ""
	return user, nil
}
