// Package database 数据库模块单元测试
package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ==================== getLogLevel 测试 ====================

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		logMode  bool
		expected logger.LogLevel
	}{
		{"log mode enabled", true, logger.Info},
		{"log mode disabled", false, logger.Silent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := getLogLevel(tt.logMode)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// ==================== Paginate 测试 ====================

func TestPaginate(t *testing.T) {
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	type Room struct {
		ID   int64
		Name string
	}
	err = testDB.AutoMigrate(&Room{})
	require.NoError(t, err)

	for i := 1; i <= 50; i++ {
		testDB.Create(&Room{ID: int64(i), Name: "객실"})
	}

	tests := []struct {
		name         string
		page         int
		pageSize     int
		expectedLen  int
		expectedFrom int64
	}{
		{"first page", 1, 10, 10, 1},
		{"second page", 2, 10, 10, 11},
		{"last page", 5, 10, 10, 41},
		{"page past end", 6, 10, 0, 0},
		{"zero page defaults to 1", 0, 10, 10, 1},
		{"negative page defaults to 1", -1, 10, 10, 1},
		{"zero pageSize defaults to 10", 1, 0, 10, 1},
		{"pageSize over 100 capped", 1, 200, 50, 1}, // 共 50 条
		{"custom pageSize 5", 2, 5, 5, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var results []Room
			testDB.Scopes(Paginate(tt.page, tt.pageSize)).Order("id").Find(&results)

			assert.Len(t, results, tt.expectedLen)
			if tt.expectedLen > 0 {
				assert.Equal(t, tt.expectedFrom, results[0].ID)
			}
		})
	}
}

func TestPaginate_WithFilter(t *testing.T) {
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	type Reservation struct {
		ID     int64
		Status string
	}
	require.NoError(t, testDB.AutoMigrate(&Reservation{}))

	for i := 1; i <= 30; i++ {
		status := "pending"
		if i%2 == 0 {
			status = "confirmed"
		}
		testDB.Create(&Reservation{ID: int64(i), Status: status})
	}

	// 分页作用域可以与过滤条件组合
	var results []Reservation
	testDB.Where("status = ?", "confirmed").
		Scopes(Paginate(1, 10)).
		Order("id").
		Find(&results)

	assert.Len(t, results, 10)
	assert.Equal(t, int64(2), results[0].ID)
	for _, r := range results {
		assert.Equal(t, "confirmed", r.Status)
	}
}

// ==================== Close 测试 ====================

func TestClose_WithNilDB(t *testing.T) {
	assert.NoError(t, Close(nil))
}

func TestClose_WithActiveDB(t *testing.T) {
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	assert.NoError(t, Close(testDB))

	// 关闭后无法再查询
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping())
}
