package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/acqua-delivery/backend/internal/auth"
	"github.com/acqua-delivery/backend/internal/config"
	"github.com/acqua-delivery/backend/internal/model"
)

// UserRepositoryInterface defines the interface for account data access.
type UserRepositoryInterface interface {
	Insert(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// TokenSource issues bearer tokens for an account email.
type TokenSource interface {
	Issue(email string) (string, error)
}

// AuthService handles registration, login, and the seeded admin account.
type AuthService struct {
	users  UserRepositoryInterface
	tokens TokenSource
	now    func() time.Time
}

// NewAuthService creates an AuthService with the given user store and token
// source.
func NewAuthService(users UserRepositoryInterface, tokens TokenSource) *AuthService {
	return &AuthService{users: users, tokens: tokens, now: time.Now}
}

// Register creates a customer account and returns a token response.
// Returns ErrEmailTaken when the email already has an account.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.TokenResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Name:         req.Name,
		Phone:        req.Phone,
		Address:      req.Address,
		Role:         model.RoleCustomer,
		CreatedAt:    s.now(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}

	return s.tokenResponse(user)
}

// Login verifies the credentials and returns a token response.
// Returns ErrInvalidCredentials for an unknown email or wrong password; the
// two cases are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.tokenResponse(user)
}

// EnsureAdmin creates the configured administrator account if no account
// with that email exists yet. Idempotent across restarts.
func (s *AuthService) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error {
	existing, err := s.users.GetByEmail(ctx, cfg.Email)
	if err != nil {
		return fmt.Errorf("look up admin account: %w", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &model.User{
		Email:        cfg.Email,
		PasswordHash: hash,
		Name:         cfg.Name,
		Phone:        cfg.Phone,
		Address:      cfg.Address,
		Role:         model.RoleAdmin,
		CreatedAt:    s.now(),
	}
	if err := s.users.Insert(ctx, admin); err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}

	log.Info().Str("email", cfg.Email).Msg("admin account created")
	return nil
}

func (s *AuthService) tokenResponse(user *model.User) (*model.TokenResponse, error) {
	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        *user,
	}, nil
}
