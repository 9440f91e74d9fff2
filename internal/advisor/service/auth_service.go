package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stockpulse/internal/advisor/config"
	"stockpulse/internal/advisor/dto"
	"stockpulse/internal/advisor/repository"
	"stockpulse/internal/entity"
	"stockpulse/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenLifetime = 24 * time.Hour

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService manages accounts and bearer tokens.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	ParseToken(token string) (uint, error)
	GetUser(ctx context.Context, userID uint) (*dto.UserResponse, error)
	UpdateBudget(ctx context.Context, userID uint, budget float64) (*dto.UserResponse, error)
}

// NewAuthService creates a new auth service.
func NewAuthService(cfg *config.Config, log *logger.Logger, userRepo repository.UserRepository) AuthService {
	lifetime, err := time.ParseDuration(cfg.Auth.TokenLifetime)
	if err != nil || lifetime <= 0 {
		lifetime = defaultTokenLifetime
	}
	return &authService{
		log:           log,
		userRepo:      userRepo,
		secret:        []byte(cfg.Auth.JWTSecret),
		tokenLifetime: lifetime,
	}
}

type authService struct {
	log           *logger.Logger
	userRepo      repository.UserRepository
	secret        []byte
	tokenLifetime time.Duration
}

// Register creates a new account with a bcrypt-hashed password.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if req.Budget > 0 {
		user.Budget = req.Budget
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("Registered user", logger.StringField("email", user.Email))
	return toUserResponse(user), nil
}

// Login verifies credentials and issues a signed token.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenLifetime)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &dto.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// ParseToken validates a bearer token and returns the user ID it carries.
func (s *authService) ParseToken(tokenString string) (uint, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	var userID uint
	if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

// GetUser returns the account for an authenticated user ID.
func (s *authService) GetUser(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return toUserResponse(user), nil
}

// UpdateBudget changes the budget used for position sizing.
func (s *authService) UpdateBudget(ctx context.Context, userID uint, budget float64) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if err := s.userRepo.UpdateBudget(ctx, userID, budget); err != nil {
		return nil, err
	}
	user.Budget = budget
	return toUserResponse(user), nil
}

func toUserResponse(user *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Budget:    user.Budget,
		CreatedAt: user.CreatedAt,
	}
}
