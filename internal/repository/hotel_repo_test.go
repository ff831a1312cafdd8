// Package repository 酒店仓储单元测试
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

func setupHotelTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Hotel{}, &models.Room{})
	require.NoError(t, err)

	return db
}

func TestHotelRepository_CreateAndGet(t *testing.T) {
	db := setupHotelTestDB(t)
	repo := NewHotelRepository(db)
	ctx := context.Background()

	hotel := &models.Hotel{
		OwnerID: 10,
		Name:    "제주 오션 리조트",
		City:    "제주",
		Address: "서귀포시 중문관광로 72",
	}
	err := repo.Create(ctx, hotel)
	require.NoError(t, err)
	assert.NotZero(t, hotel.ID)

	found, err := repo.GetByID(ctx, hotel.ID)
	require.NoError(t, err)
	assert.Equal(t, "제주 오션 리조트", found.Name)
	assert.Equal(t, int8(models.HotelStatusActive), found.Status)
}

func TestHotelRepository_GetByIDWithRooms_OnlyActive(t *testing.T) {
	db := setupHotelTestDB(t)
	repo := NewHotelRepository(db)
	ctx := context.Background()

	hotel := &models.Hotel{OwnerID: 10, Name: "제주 오션 리조트", City: "제주", Address: "중문관광로 72"}
	require.NoError(t, db.Create(hotel).Error)

	active := &models.Room{HotelID: hotel.ID, Name: "스탠다드", Price: 120000, Inventory: 8}
	disabled := &models.Room{HotelID: hotel.ID, Name: "공사중", Price: 90000}
	require.NoError(t, db.Create(active).Error)
	require.NoError(t, db.Create(disabled).Error)
	require.NoError(t, db.Model(disabled).Update("status", models.RoomStatusDisabled).Error)

	found, err := repo.GetByIDWithRooms(ctx, hotel.ID)
	require.NoError(t, err)
	require.Len(t, found.Rooms, 1)
	assert.Equal(t, "스탠다드", found.Rooms[0].Name)
}

func TestHotelRepository_List_CityFilter(t *testing.T) {
	db := setupHotelTestDB(t)
	repo := NewHotelRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Hotel{OwnerID: 1, Name: "서울 그랜드", City: "서울", Address: "a"}).Error)
	require.NoError(t, db.Create(&models.Hotel{OwnerID: 1, Name: "부산 비치", City: "부산", Address: "b"}).Error)
	require.NoError(t, db.Create(&models.Hotel{OwnerID: 2, Name: "부산 시티", City: "부산", Address: "c"}).Error)

	list, total, err := repo.List(ctx, 0, 10, map[string]interface{}{
		"city": "부산",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)
}

func TestHotelRepository_ListByOwner(t *testing.T) {
	db := setupHotelTestDB(t)
	repo := NewHotelRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Hotel{OwnerID: 5, Name: "서울 그랜드", City: "서울", Address: "a"}).Error)
	require.NoError(t, db.Create(&models.Hotel{OwnerID: 5, Name: "부산 비치", City: "부산", Address: "b"}).Error)
	require.NoError(t, db.Create(&models.Hotel{OwnerID: 6, Name: "부산 시티", City: "부산", Address: "c"}).Error)

	list, err := repo.ListByOwner(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestHotelRepository_UpdateStatus(t *testing.T) {
	db := setupHotelTestDB(t)
	repo := NewHotelRepository(db)
	ctx := context.Background()

	hotel := &models.Hotel{OwnerID: 1, Name: "서울 그랜드", City: "서울", Address: "a"}
	require.NoError(t, db.Create(hotel).Error)

	err := repo.UpdateStatus(ctx, hotel.ID, models.HotelStatusDisabled)
	require.NoError(t, err)

	found, err := repo.GetByID(ctx, hotel.ID)
	require.NoError(t, err)
	assert.Equal(t, int8(models.HotelStatusDisabled), found.Status)
}
