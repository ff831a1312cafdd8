// Package auth 认证服务单元测试
package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/minsukang/stayhub-backend/internal/common/errors"
	"github.com/minsukang/stayhub-backend/internal/common/jwt"
	"github.com/minsukang/stayhub-backend/internal/models"
	"github.com/minsukang/stayhub-backend/internal/repository"
)

func setupAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:            "test-secret-key-for-auth",
		AccessExpireTime:  time.Hour,
		RefreshExpireTime: 24 * time.Hour,
		Issuer:            "stayhub-test",
	})

	return NewAuthService(db, repository.NewUserRepository(db), jwtManager), db
}

func validRegisterRequest() *RegisterRequest {
	return &RegisterRequest{
		Email:    "hong@example.com",
		Password: "s3cret-password",
		Nickname: "홍길동",
	}
}

func TestAuthService_Register(t *testing.T) {
	svc, db := setupAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)
	assert.Equal(t, "hong@example.com", resp.User.Email)
	assert.Equal(t, models.RoleUser, resp.User.Role)
	assert.NotEmpty(t, resp.TokenPair.AccessToken)
	assert.NotEmpty(t, resp.TokenPair.RefreshToken)

	// 密码以散列存储
	var user models.User
	require.NoError(t, db.Where("email = ?", "hong@example.com").First(&user).Error)
	assert.NotEqual(t, "s3cret-password", user.PasswordHash)
	assert.NotEmpty(t, user.PasswordHash)
}

func TestAuthService_Register_EmailExists(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	// 邮箱不区分大小写
	req := validRegisterRequest()
	req.Email = "HONG@Example.com"
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, errors.ErrEmailExists)
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &LoginRequest{
		Email:    "Hong@Example.com",
		Password: "s3cret-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "홍길동", resp.User.Nickname)
	assert.NotEmpty(t, resp.TokenPair.AccessToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginRequest{Email: "hong@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, errors.ErrPasswordError)

	// 未注册邮箱返回同一错误
	_, err = svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "s3cret-password"})
	assert.ErrorIs(t, err, errors.ErrPasswordError)
}

func TestAuthService_Login_AccountDisabled(t *testing.T) {
	svc, db := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.User{}).
		Where("email = ?", "hong@example.com").
		Update("status", models.UserStatusDisabled).Error)

	_, err = svc.Login(ctx, &LoginRequest{Email: "hong@example.com", Password: "s3cret-password"})
	assert.ErrorIs(t, err, errors.ErrAccountDisabled)
}

func TestAuthService_RefreshToken(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	pair, err := svc.RefreshToken(ctx, &RefreshTokenRequest{RefreshToken: resp.TokenPair.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	_, err = svc.RefreshToken(ctx, &RefreshTokenRequest{RefreshToken: "not-a-token"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrTokenRefreshFail.Code, errors.GetAppError(err).Code)
}

func TestAuthService_GetUserByID(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	info, err := svc.GetUserByID(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "hong@example.com", info.Email)

	_, err = svc.GetUserByID(ctx, resp.User.ID+100)
	assert.ErrorIs(t, err, errors.ErrUserNotFound)
}
