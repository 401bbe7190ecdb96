package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"peerpay/internal/adapters/persistence/models"
	"peerpay/internal/adapters/persistence/repositories"
	"peerpay/internal/config"
	"peerpay/internal/core/domain"
	"peerpay/internal/pkg/jwt"
	"peerpay/internal/pkg/password"

	"gorm.io/gorm"
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo repositories.UserRepository
	jwtCfg   config.JWTConfig
	logger   *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, jwtCfg config.JWTConfig, logger *slog.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
		logger:   logger,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Displayname string `json:"displayname" validate:"required,max=100"`
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,max=30"`
	Password    string `json:"password" validate:"required"`
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User  *models.UserResponse `json:"user"`
	Token string               `json:"token"`
}

// Register creates a user with a zero balance and signs a token for it
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Username == "" || input.Email == "" || input.Displayname == "" || input.Phone == "" {
		return nil, domain.ErrInvalidInput
	}
	if !password.ValidatePassword(input.Password) {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, password.MinLength)
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	exists, err = s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUsernameTaken
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Displayname: input.Displayname,
		Username:    input.Username,
		Email:       input.Email,
		Phone:       input.Phone,
		Password:    hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if taken, _ := s.userRepo.ExistsByEmail(ctx, input.Email); taken {
				return nil, domain.ErrEmailTaken
			}
			return nil, domain.ErrUsernameTaken
		}
		return nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "username", user.Username, "id", user.ID)

	return &AuthResponse{User: user.ToResponse(), Token: token}, nil
}

// Login authenticates a user
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "username", user.Username)

	return &AuthResponse{User: user.ToResponse(), Token: token}, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	return jwt.GenerateAccessToken(user.ID, user.Email, user.Username, s.jwtCfg.Secret, s.jwtCfg.ExpiryHours)
}
