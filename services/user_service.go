package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/Dosada05/football-cup/models"
	"github.com/Dosada05/football-cup/repositories"
	"golang.org/x/crypto/bcrypt"
)

type CreateOperatorInput struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
}

// UserService manages the operator accounts that may sign in.
type UserService interface {
	GetProfile(ctx context.Context, userID int) (*models.User, error)
	CreateOperator(ctx context.Context, input CreateOperatorInput) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

func NewUserService(userRepo repositories.UserRepository, logger *slog.Logger) UserService {
	if logger == nil {
		logger = discardLogger()
	}
	return &userService{userRepo: userRepo, logger: logger}
}

func (s *userService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, handleRepositoryError(err, "user", userID)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) CreateOperator(ctx context.Context, input CreateOperatorInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email %q", ErrValidationFailed, input.Email)
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	role := input.Role
	if role == "" {
		role = models.RoleViewer
	}
	if role != models.RoleAdmin && role != models.RoleViewer {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidationFailed, role)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: string(hashedPassword), Role: role}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, handleRepositoryError(err, "user", 0)
	}

	s.logger.InfoContext(ctx, "operator account created",
		slog.Int("user_id", user.ID), slog.String("role", string(role)))
	user.PasswordHash = ""
	return user, nil
}
