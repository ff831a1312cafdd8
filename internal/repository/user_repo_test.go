// Package repository 用户仓储单元测试
package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/minsukang/stayhub-backend/internal/models"
)

// setupUserTestDB 创建用户测试数据库
func setupUserTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{})
	require.NoError(t, err)

	return db
}

func TestUserRepository_CreateAndGetByEmail(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{
		Email:        "minji@example.com",
		PasswordHash: "$2a$10$hash",
		Nickname:     "민지",
		Role:         models.RoleUser,
	}
	err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	found, err := repo.GetByEmail(ctx, "minji@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "민지", found.Nickname)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Email: "exists@example.com", PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, user))

	exists, err := repo.ExistsByEmail(ctx, "exists@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "missing@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_AddPoints(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Email: "points@example.com", PasswordHash: "x", Points: 1000}
	require.NoError(t, repo.Create(ctx, user))

	err := repo.AddPoints(ctx, db, user.ID, 2000)
	require.NoError(t, err)

	found, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), found.Points)
}

func TestUserRepository_DeductPoints(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Email: "deduct@example.com", PasswordHash: "x", Points: 50000}
	require.NoError(t, repo.Create(ctx, user))

	ok, err := repo.DeductPoints(ctx, db, user.ID, 30000)
	require.NoError(t, err)
	assert.True(t, ok)

	// 余额不足时不得扣减
	ok, err = repo.DeductPoints(ctx, db, user.ID, 60000)
	require.NoError(t, err)
	assert.False(t, ok)

	found, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), found.Points)
}

func TestUserRepository_UpdateStatus(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Email: "status@example.com", PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, user))

	err := repo.UpdateStatus(ctx, user.ID, models.UserStatusDisabled)
	require.NoError(t, err)

	found, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int8(models.UserStatusDisabled), found.Status)
}

func TestUserRepository_List_RoleFilter(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Email: "u1@example.com", PasswordHash: "x", Role: models.RoleUser}))
	require.NoError(t, repo.Create(ctx, &models.User{Email: "p1@example.com", PasswordHash: "x", Role: models.RolePartner}))
	require.NoError(t, repo.Create(ctx, &models.User{Email: "a1@example.com", PasswordHash: "x", Role: models.RoleAdmin}))

	list, total, err := repo.List(ctx, 0, 10, map[string]interface{}{
		"role": models.RolePartner,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "p1@example.com", list[0].Email)
}
