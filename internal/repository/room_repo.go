// Package repository 提供数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/minsukang/stayhub-backend/internal/models"
)

// RoomRepository 房型仓储
type RoomRepository struct {
	db *gorm.DB
}

// NewRoomRepository 创建房型仓储
func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create 创建房型
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

// GetByID 根据 ID 获取房型
func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetByIDWithHotel 根据 ID 获取房型（包含酒店信息）
func (r *RoomRepository) GetByIDWithHotel(ctx context.Context, id int64) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Preload("Hotel").
		First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// Update 更新房型
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

// UpdateFields 更新指定字段
func (r *RoomRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Room{}).Where("id = ?", id).Updates(fields).Error
}

// List 获取房型列表
func (r *RoomRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Room, int64, error) {
	var rooms []*models.Room
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Room{})

	// 应用过滤条件
	if hotelID, ok := filters["hotel_id"].(int64); ok && hotelID > 0 {
		query = query.Where("hotel_id = ?", hotelID)
	}
	if roomType, ok := filters["type"].(string); ok && roomType != "" {
		query = query.Where("type = ?", roomType)
	}
	if status, ok := filters["status"].(int8); ok {
		query = query.Where("status = ?", status)
	}
	if maxPrice, ok := filters["max_price"].(int64); ok && maxPrice > 0 {
		query = query.Where("price <= ?", maxPrice)
	}
	if minPrice, ok := filters["min_price"].(int64); ok && minPrice > 0 {
		query = query.Where("price >= ?", minPrice)
	}

	// 统计总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 查询列表
	if err := query.Preload("Hotel").Order("id ASC").Offset(offset).Limit(limit).Find(&rooms).Error; err != nil {
		return nil, 0, err
	}

	return rooms, total, nil
}

// ListByHotel 获取酒店下的房型列表
func (r *RoomRepository) ListByHotel(ctx context.Context, hotelID int64, status *int8) ([]*models.Room, error) {
	var rooms []*models.Room
	query := r.db.WithContext(ctx).Where("hotel_id = ?", hotelID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Order("id ASC").Find(&rooms).Error
	return rooms, err
}

// ReserveInventory 扣减可售房量。
// 使用条件更新保证并发下不超卖，库存不足时返回 false。
func (r *RoomRepository) ReserveInventory(ctx context.Context, tx *gorm.DB, roomID int64) (bool, error) {
	result := tx.WithContext(ctx).Model(&models.Room{}).
		Where("id = ? AND inventory > 0", roomID).
		UpdateColumn("inventory", gorm.Expr("inventory - 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ReleaseInventory 回补可售房量
func (r *RoomRepository) ReleaseInventory(ctx context.Context, tx *gorm.DB, roomID int64) error {
	return tx.WithContext(ctx).Model(&models.Room{}).
		Where("id = ?", roomID).
		UpdateColumn("inventory", gorm.Expr("inventory + 1")).Error
}

// Delete 删除房型（软删除）
func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Room{}, id).Error
}
