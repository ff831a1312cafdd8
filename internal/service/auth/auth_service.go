// Package auth 提供认证服务
package auth

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/minsukang/stayhub-backend/internal/common/crypto"
	"github.com/minsukang/stayhub-backend/internal/common/errors"
	"github.com/minsukang/stayhub-backend/internal/common/jwt"
	"github.com/minsukang/stayhub-backend/internal/common/logger"
	"github.com/minsukang/stayhub-backend/internal/models"
	"github.com/minsukang/stayhub-backend/internal/repository"
)

// AuthService 认证服务
type AuthService struct {
	db         *gorm.DB
	userRepo   *repository.UserRepository
	jwtManager *jwt.Manager
}

// NewAuthService 创建认证服务
func NewAuthService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	jwtManager *jwt.Manager,
) *AuthService {
	return &AuthService{
		db:         db,
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8,max=64"`
	Nickname string  `json:"nickname" binding:"required,max=50"`
	Phone    *string `json:"phone"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest 刷新令牌请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	User      *UserInfo      `json:"user"`
	TokenPair *jwt.TokenPair `json:"token"`
}

// UserInfo 用户信息
type UserInfo struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	Phone     *string   `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Points    int64     `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// Register 邮箱注册，邮箱不区分大小写
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, errors.ErrEmailExists
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Nickname:     req.Nickname,
		Phone:        req.Phone,
		Role:         models.RoleUser,
		Status:       models.UserStatusActive,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("用户注册成功", logger.UserID(user.ID),
		zap.String("email", crypto.MaskEmail(user.Email)))

	return s.buildLoginResponse(user)
}

// Login 邮箱密码登录。用户不存在与密码错误返回同一错误，
// 避免暴露邮箱是否已注册。
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPasswordError
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if !crypto.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, errors.ErrPasswordError
	}

	if user.Status != models.UserStatusActive {
		return nil, errors.ErrAccountDisabled
	}

	logger.Info("用户登录成功", logger.UserID(user.ID))

	return s.buildLoginResponse(user)
}

// RefreshToken 刷新令牌
func (s *AuthService) RefreshToken(ctx context.Context, req *RefreshTokenRequest) (*jwt.TokenPair, error) {
	pair, err := s.jwtManager.RefreshToken(req.RefreshToken)
	if err != nil {
		return nil, errors.ErrTokenRefreshFail.WithError(err)
	}
	return pair, nil
}

// GetUserByID 按 ID 获取用户，中间件鉴权后使用
func (s *AuthService) GetUserByID(ctx context.Context, userID int64) (*UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return s.toUserInfo(user), nil
}

// buildLoginResponse 签发令牌并组装登录响应
func (s *AuthService) buildLoginResponse(user *models.User) (*LoginResponse, error) {
	userType := jwt.UserTypeUser
	if user.Role == models.RoleAdmin {
		userType = jwt.UserTypeAdmin
	}

	pair, err := s.jwtManager.GenerateTokenPair(user.ID, userType, user.Role)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	return &LoginResponse{
		User:      s.toUserInfo(user),
		TokenPair: pair,
	}, nil
}

// toUserInfo 转换用户信息
func (s *AuthService) toUserInfo(user *models.User) *UserInfo {
	return &UserInfo{
		ID:        user.ID,
		Email:     user.Email,
		Nickname:  user.Nickname,
		Phone:     user.Phone,
		Role:      user.Role,
		Points:    user.Points,
		CreatedAt: user.CreatedAt,
	}
}
