package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/techshop/internal/apperr"
	"github.com/example/techshop/internal/auth"
	"github.com/example/techshop/internal/config"
	"github.com/example/techshop/internal/datamodels/user"
)

// UserService 注册/登录/个人信息
type UserService struct {
	repo user.Repository
	jwt  *config.JWTConfig
}

func NewUserService(repo user.Repository, jwt *config.JWTConfig) *UserService {
	return &UserService{repo: repo, jwt: jwt}
}

// Register 注册新用户并返回 JWT，邮箱重复返回校验错误
func (s *UserService) Register(ctx context.Context, email, password, fullName string) (*user.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", apperr.Validation("invalid email")
	}
	if len(password) < 6 {
		return nil, "", apperr.Validation("password must be at least 6 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	u := &user.User{
		Email:    email,
		Password: string(hashed),
		FullName: fullName,
		Role:     user.RoleCustomer,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		// 唯一索引兜底并发注册，重复一律按已注册处理
		if errors.Is(err, apperr.ErrDuplicate) {
			return nil, "", apperr.Validation("email already registered")
		}
		return nil, "", err
	}

	token, err := auth.GenerateToken(s.jwt, u.ID, u.Email, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login 校验密码并返回 JWT，账号不存在与密码错误返回同一错误
func (s *UserService) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, "", apperr.Validation("invalid credentials")
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, "", apperr.Validation("invalid credentials")
	}

	token, err := auth.GenerateToken(s.jwt, u.ID, u.Email, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// GetProfile 查询当前用户信息
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*user.User, error) {
	return s.repo.GetByID(ctx, userID)
}
