package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/techshop/internal/apperr"
	"github.com/example/techshop/internal/auth"
	"github.com/example/techshop/internal/config"
	"github.com/example/techshop/internal/datamodels/user"
)

type fakeUserRepo struct {
	byEmail map[string]*user.User
	nextID  int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*user.User), nextID: 1}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return apperr.ErrDuplicate
	}
	u.ID = r.nextID
	r.nextID++
	cp := *u
	r.byEmail[u.Email] = &cp
	return nil
}

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{Secret: "test-secret", ExpireHours: 1}
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, testJWTConfig())
	ctx := context.Background()

	u, token, err := svc.Register(ctx, "Alice@Example.com", "secret123", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email, "邮箱归一为小写")
	assert.Equal(t, user.RoleCustomer, u.Role)
	assert.NotEqual(t, "secret123", u.Password, "存储的必须是哈希")
	assert.NotEmpty(t, token)

	claims, err := auth.ParseToken(testJWTConfig(), token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, u.Email, claims.Email)

	_, _, err = svc.Login(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), testJWTConfig())
	ctx := context.Background()

	var ve *apperr.ValidationError
	_, _, err := svc.Register(ctx, "not-an-email", "secret123", "x")
	require.ErrorAs(t, err, &ve)

	_, _, err = svc.Register(ctx, "a@b.com", "short", "x")
	require.ErrorAs(t, err, &ve)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), testJWTConfig())
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "a@b.com", "secret123", "first")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "a@b.com", "secret456", "second")
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Reason, "already registered")
}

func TestLoginBadCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, testJWTConfig())
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "a@b.com", "secret123", "x")
	require.NoError(t, err)

	// 账号不存在与密码错误对外是同一个错误
	var ve *apperr.ValidationError
	_, _, err = svc.Login(ctx, "missing@b.com", "secret123")
	require.ErrorAs(t, err, &ve)
	wrongUser := ve.Reason

	_, _, err = svc.Login(ctx, "a@b.com", "wrongpass")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, wrongUser, ve.Reason)
}
