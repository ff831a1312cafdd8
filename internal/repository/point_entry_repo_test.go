// Package repository 积分流水仓储单元测试
package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/minsukang/stayhub-backend/internal/models"
)

func setupPointEntryTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.PointEntry{})
	require.NoError(t, err)

	return db
}

func TestPointEntryRepository_ListByUser_NewestFirst(t *testing.T) {
	db := setupPointEntryTestDB(t)
	repo := NewPointEntryRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.PointEntry{
		UserID: 1, Type: models.PointTypeEarned, Amount: 2000, Description: "예약 적립",
	}))
	require.NoError(t, repo.Create(ctx, &models.PointEntry{
		UserID: 1, Type: models.PointTypeUsed, Amount: 500, Description: "예약 사용",
	}))
	require.NoError(t, repo.Create(ctx, &models.PointEntry{
		UserID: 2, Type: models.PointTypeEarned, Amount: 500, Description: "리뷰 적립",
	}))

	entries, total, err := repo.ListByUser(ctx, 1, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, entries, 2)
	// 最近一条在前
	assert.Equal(t, models.PointTypeUsed, entries[0].Type)
	assert.Equal(t, models.PointTypeEarned, entries[1].Type)
}

func TestPointEntryRepository_SumByUserAndType(t *testing.T) {
	db := setupPointEntryTestDB(t)
	repo := NewPointEntryRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.PointEntry{UserID: 1, Type: models.PointTypeEarned, Amount: 2000}))
	require.NoError(t, repo.Create(ctx, &models.PointEntry{UserID: 1, Type: models.PointTypeEarned, Amount: 500}))
	require.NoError(t, repo.Create(ctx, &models.PointEntry{UserID: 1, Type: models.PointTypeUsed, Amount: 300}))

	earned, err := repo.SumByUserAndType(ctx, 1, models.PointTypeEarned)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), earned)

	used, err := repo.SumByUserAndType(ctx, 1, models.PointTypeUsed)
	require.NoError(t, err)
	assert.Equal(t, int64(300), used)

	expired, err := repo.SumByUserAndType(ctx, 1, models.PointTypeExpired)
	require.NoError(t, err)
	assert.Equal(t, int64(0), expired)
}

func TestPointEntryRepository_SumExpirableByUser(t *testing.T) {
	db := setupPointEntryTestDB(t)
	repo := NewPointEntryRepository(db)
	ctx := context.Background()

	old := time.Now().AddDate(-1, -1, 0)
	cutoff := time.Now().AddDate(-1, 0, 0)

	// 一年前获得 3000，其中 1000 已使用
	require.NoError(t, db.Create(&models.PointEntry{
		UserID: 1, Type: models.PointTypeEarned, Amount: 3000, CreatedAt: old,
	}).Error)
	require.NoError(t, db.Create(&models.PointEntry{
		UserID: 1, Type: models.PointTypeUsed, Amount: 1000,
	}).Error)
	// 近期获得的不在过期范围内
	require.NoError(t, db.Create(&models.PointEntry{
		UserID: 1, Type: models.PointTypeEarned, Amount: 5000,
	}).Error)

	expirable, err := repo.SumExpirableByUser(ctx, 1, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), expirable)
}

func TestPointEntryRepository_SumExpirableByUser_ClampedAtZero(t *testing.T) {
	db := setupPointEntryTestDB(t)
	repo := NewPointEntryRepository(db)
	ctx := context.Background()

	old := time.Now().AddDate(-1, -1, 0)
	cutoff := time.Now().AddDate(-1, 0, 0)

	require.NoError(t, db.Create(&models.PointEntry{
		UserID: 1, Type: models.PointTypeEarned, Amount: 1000, CreatedAt: old,
	}).Error)
	require.NoError(t, db.Create(&models.PointEntry{
		UserID: 1, Type: models.PointTypeUsed, Amount: 4000,
	}).Error)

	expirable, err := repo.SumExpirableByUser(ctx, 1, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(0), expirable)
}

func TestPointEntryRepository_ListUsersWithExpirableEarned(t *testing.T) {
	db := setupPointEntryTestDB(t)
	repo := NewPointEntryRepository(db)
	ctx := context.Background()

	old := time.Now().AddDate(-1, -1, 0)
	cutoff := time.Now().AddDate(-1, 0, 0)

	require.NoError(t, db.Create(&models.PointEntry{
		UserID: 1, Type: models.PointTypeEarned, Amount: 1000, CreatedAt: old,
	}).Error)
	require.NoError(t, db.Create(&models.PointEntry{
		UserID: 1, Type: models.PointTypeEarned, Amount: 2000, CreatedAt: old,
	}).Error)
	require.NoError(t, db.Create(&models.PointEntry{
		UserID: 2, Type: models.PointTypeEarned, Amount: 3000,
	}).Error)

	userIDs, err := repo.ListUsersWithExpirableEarned(ctx, cutoff, 100)
	require.NoError(t, err)
	require.Len(t, userIDs, 1)
	assert.Equal(t, int64(1), userIDs[0])
}
