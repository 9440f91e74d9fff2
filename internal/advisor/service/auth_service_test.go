package service

import (
	"context"
	"testing"

	"stockpulse/internal/advisor/config"
	"stockpulse/internal/advisor/dto"
	"stockpulse/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users  []*entity.User
	nextID uint
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.nextID++
	user.ID = f.nextID
	if user.Budget == 0 {
		user.Budget = 10000
	}
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdateBudget(ctx context.Context, id uint, budget float64) error {
	for _, u := range f.users {
		if u.ID == id {
			u.Budget = budget
		}
	}
	return nil
}

func newTestAuthService(t *testing.T, repo *fakeUserRepo) AuthService {
	t.Helper()
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenLifetime = "1h"
	return NewAuthService(cfg, testLogger(t), repo)
}

func TestRegisterAndLogin(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, &dto.RegisterRequest{Email: "a@b.com", Password: "hunter2secret"})
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)
	assert.Equal(t, 10000.0, user.Budget)

	// The stored hash never equals the raw password.
	assert.NotEqual(t, "hunter2secret", repo.users[0].PasswordHash)

	token, err := svc.Login(ctx, &dto.LoginRequest{Email: "a@b.com", Password: "hunter2secret"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)

	userID, err := svc.ParseToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t, &fakeUserRepo{})
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "a@b.com", Password: "hunter2secret"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Email: "a@b.com", Password: "otherpassword"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_WrongCredentials(t *testing.T) {
	svc := newTestAuthService(t, &fakeUserRepo{})
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "a@b.com", Password: "hunter2secret"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "a@b.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@b.com", Password: "hunter2secret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseToken_Invalid(t *testing.T) {
	svc := newTestAuthService(t, &fakeUserRepo{})

	_, err := svc.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUpdateBudget(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, &dto.RegisterRequest{Email: "a@b.com", Password: "hunter2secret", Budget: 5000})
	require.NoError(t, err)
	assert.Equal(t, 5000.0, user.Budget)

	updated, err := svc.UpdateBudget(ctx, user.ID, 25000)
	require.NoError(t, err)
	assert.Equal(t, 25000.0, updated.Budget)

	_, err = svc.UpdateBudget(ctx, 999, 25000)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
