package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acqua-delivery/backend/internal/auth"
	"github.com/acqua-delivery/backend/internal/config"
	"github.com/acqua-delivery/backend/internal/model"
)

// mockUserRepository is a mock implementation of UserRepositoryInterface.
type mockUserRepository struct {
	insertFn     func(ctx context.Context, user *model.User) error
	getByEmailFn func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockUserRepository) Insert(ctx context.Context, user *model.User) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, nil
}

// mockTokenSource is a mock implementation of TokenSource.
type mockTokenSource struct {
	issueFn func(email string) (string, error)
}

func (m *mockTokenSource) Issue(email string) (string, error) {
	if m.issueFn != nil {
		return m.issueFn(email)
	}
	return "test-token", nil
}

func testRegisterRequest() *model.RegisterRequest {
	return &model.RegisterRequest{
		Email:    "New.Customer@Example.COM",
		Password: "secret123",
		Name:     "New Customer",
		Phone:    "5551234567",
		Address:  "Test Address 123",
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	var inserted *model.User
	users := &mockUserRepository{
		insertFn: func(ctx context.Context, user *model.User) error {
			inserted = user
			return nil
		},
	}
	svc := NewAuthService(users, &mockTokenSource{})

	resp, err := svc.Register(context.Background(), testRegisterRequest())

	require.NoError(t, err)
	require.NotNil(t, inserted)
	assert.Equal(t, "new.customer@example.com", inserted.Email, "emails are stored lowercased")
	assert.Equal(t, model.RoleCustomer, inserted.Role)
	assert.NotEqual(t, "secret123", inserted.PasswordHash)
	assert.True(t, auth.CheckPassword("secret123", inserted.PasswordHash))
	assert.Equal(t, "test-token", resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, "new.customer@example.com", resp.User.Email)
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	users := &mockUserRepository{
		insertFn: func(ctx context.Context, user *model.User) error {
			return ErrEmailTaken
		},
	}
	svc := NewAuthService(users, &mockTokenSource{})

	_, err := svc.Register(context.Background(), testRegisterRequest())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmailTaken))
}

func TestAuthService_Register_NilRequest(t *testing.T) {
	svc := NewAuthService(&mockUserRepository{}, &mockTokenSource{})

	_, err := svc.Register(context.Background(), nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}

func TestAuthService_Login_Success(t *testing.T) {
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	users := &mockUserRepository{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			require.Equal(t, "customer@example.com", email)
			return &model.User{Email: email, PasswordHash: hash, Role: model.RoleCustomer}, nil
		},
	}
	svc := NewAuthService(users, &mockTokenSource{})

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    " Customer@Example.com ",
		Password: "secret123",
	})

	require.NoError(t, err)
	assert.Equal(t, "test-token", resp.AccessToken)
	assert.Equal(t, "customer@example.com", resp.User.Email)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := NewAuthService(&mockUserRepository{}, &mockTokenSource{})

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret123",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	users := &mockUserRepository{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{Email: email, PasswordHash: hash}, nil
		},
	}
	svc := NewAuthService(users, &mockTokenSource{})

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:    "customer@example.com",
		Password: "wrong-password",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCredentials),
		"wrong password and unknown email must be indistinguishable")
}

func TestAuthService_EnsureAdmin_CreatesAccount(t *testing.T) {
	var inserted *model.User
	users := &mockUserRepository{
		insertFn: func(ctx context.Context, user *model.User) error {
			inserted = user
			return nil
		},
	}
	svc := NewAuthService(users, &mockTokenSource{})

	cfg := config.AdminConfig{
		Email:    "admin@acqua.com",
		Password: "admin123",
		Name:     "Administrador ACQUA",
	}
	err := svc.EnsureAdmin(context.Background(), cfg)

	require.NoError(t, err)
	require.NotNil(t, inserted)
	assert.Equal(t, "admin@acqua.com", inserted.Email)
	assert.Equal(t, model.RoleAdmin, inserted.Role)
	assert.True(t, auth.CheckPassword("admin123", inserted.PasswordHash))
}

func TestAuthService_EnsureAdmin_Idempotent(t *testing.T) {
	insertCalled := false
	users := &mockUserRepository{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{Email: email, Role: model.RoleAdmin}, nil
		},
		insertFn: func(ctx context.Context, user *model.User) error {
			insertCalled = true
			return nil
		},
	}
	svc := NewAuthService(users, &mockTokenSource{})

	err := svc.EnsureAdmin(context.Background(), config.AdminConfig{Email: "admin@acqua.com"})

	require.NoError(t, err)
	assert.False(t, insertCalled, "existing admin account must not be recreated")
}

func TestAuthService_EnsureAdmin_LookupError(t *testing.T) {
	users := &mockUserRepository{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := NewAuthService(users, &mockTokenSource{})

	err := svc.EnsureAdmin(context.Background(), config.AdminConfig{Email: "admin@acqua.com"})

	require.Error(t, err)
}

func TestAuthService_TokenIssueError(t *testing.T) {
	tokens := &mockTokenSource{
		issueFn: func(email string) (string, error) {
			return "", errors.New("signing key unavailable")
		},
	}
	svc := NewAuthService(&mockUserRepository{}, tokens)

	_, err := svc.Register(context.Background(), testRegisterRequest())

	require.Error(t, err)
}
