//go:build integration

// Package integration testcontainers-go 使用示例测试
package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minsukang/stayhub-backend/internal/models"
)

// TestTestContainers_Example 演示如何使用 TestContainers
func TestTestContainers_Example(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	tc := NewTestContainers(ctx)

	// 启动所有容器
	err := tc.StartAll()
	require.NoError(t, err, "failed to start containers")

	// 确保清理容器
	t.Cleanup(func() {
		_ = tc.Cleanup()
	})

	// 测试 Postgres 连接与模型迁移
	t.Run("Postgres", func(t *testing.T) {
		db, err := tc.GetPostgresDB()
		require.NoError(t, err)

		require.NoError(t, MigrateAll(db))

		// 插入数据
		user := &models.User{
			Email:        "minji@test.com",
			PasswordHash: "x",
			Nickname:     "김민지",
			Role:         models.RoleUser,
			Status:       models.UserStatusActive,
		}
		require.NoError(t, db.Create(user).Error)

		// 查询数据
		var count int64
		err = db.Model(&models.User{}).Count(&count).Error
		assert.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	// 测试 Redis 连接
	t.Run("Redis", func(t *testing.T) {
		client, err := tc.GetRedisClient()
		require.NoError(t, err)

		ctx := context.Background()

		// 设置值
		err = client.Set(ctx, "hotel:1:detail", "cached", time.Minute).Err()
		assert.NoError(t, err)

		// 获取值
		val, err := client.Get(ctx, "hotel:1:detail").Result()
		assert.NoError(t, err)
		assert.Equal(t, "cached", val)

		// 删除值
		err = client.Del(ctx, "hotel:1:detail").Err()
		assert.NoError(t, err)
	})
}

// TestTestContainers_PostgresOnly 仅启动 Postgres
func TestTestContainers_PostgresOnly(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	tc := NewTestContainers(ctx)

	err := tc.StartPostgres(DefaultPostgresConfig())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = tc.Cleanup()
	})

	db, err := tc.GetPostgresDB()
	require.NoError(t, err)

	// 验证连接
	sqlDB, err := db.DB()
	require.NoError(t, err)

	err = sqlDB.Ping()
	assert.NoError(t, err)
}

// TestTestContainers_RedisOnly 仅启动 Redis
func TestTestContainers_RedisOnly(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	tc := NewTestContainers(ctx)

	err := tc.StartRedis(DefaultRedisConfig())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = tc.Cleanup()
	})

	client, err := tc.GetRedisClient()
	require.NoError(t, err)

	// 验证连接
	pong, err := client.Ping(ctx).Result()
	assert.NoError(t, err)
	assert.Equal(t, "PONG", pong)
}

// TestTestContainers_CustomConfig 使用自定义配置
func TestTestContainers_CustomConfig(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	tc := NewTestContainers(ctx)

	// 自定义 Postgres 配置
	pgCfg := PostgresConfig{
		Database: "stayhub_itest",
		User:     "stayhub",
		Password: "stayhub_secret",
		Image:    "postgres:14-alpine",
	}

	err := tc.StartPostgres(pgCfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = tc.Cleanup()
	})

	// 验证 DSN 包含自定义配置
	assert.Contains(t, tc.PostgresDSN, "stayhub_itest")
	assert.Contains(t, tc.PostgresDSN, "stayhub")
	assert.Contains(t, tc.PostgresDSN, "stayhub_secret")
}

// TestTestContainers_GetDBBeforeStart 在启动前获取 DB 应该失败
func TestTestContainers_GetDBBeforeStart(t *testing.T) {
	ctx := context.Background()
	tc := NewTestContainers(ctx)

	_, err := tc.GetPostgresDB()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "postgres container not started")

	_, err = tc.GetRedisClient()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "redis container not started")
}

// TestTestContainers_CleanupWithoutStart 清理未启动的容器应该成功
func TestTestContainers_CleanupWithoutStart(t *testing.T) {
	ctx := context.Background()
	tc := NewTestContainers(ctx)

	err := tc.Cleanup()
	assert.NoError(t, err)
}
