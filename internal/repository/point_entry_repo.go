// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/minsukang/stayhub-backend/internal/models"
)

// PointEntryRepository 积分流水仓储
type PointEntryRepository struct {
	db *gorm.DB
}

// NewPointEntryRepository 创建积分流水仓储
func NewPointEntryRepository(db *gorm.DB) *PointEntryRepository {
	return &PointEntryRepository{db: db}
}

// Create 追加积分流水
func (r *PointEntryRepository) Create(ctx context.Context, entry *models.PointEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// CreateTx 在事务中追加积分流水
func (r *PointEntryRepository) CreateTx(ctx context.Context, tx *gorm.DB, entry *models.PointEntry) error {
	return tx.WithContext(ctx).Create(entry).Error
}

// ListByUser 获取用户积分流水，按时间倒序
func (r *PointEntryRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*models.PointEntry, int64, error) {
	var entries []*models.PointEntry
	var total int64

	query := r.db.WithContext(ctx).Model(&models.PointEntry{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// SumByUserAndType 按类型汇总用户积分
func (r *PointEntryRepository) SumByUserAndType(ctx context.Context, userID int64, entryType string) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&models.PointEntry{}).
		Where("user_id = ? AND type = ?", userID, entryType).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

// SumExpirableByUser 汇总用户在指定时间之前获得、尚未被过期冲销的积分。
// 过期核算按「早于 before 的 earned 总额 - 已有 expired/used 总额」估算，下限为 0。
func (r *PointEntryRepository) SumExpirableByUser(ctx context.Context, userID int64, before time.Time) (int64, error) {
	var earned int64
	err := r.db.WithContext(ctx).Model(&models.PointEntry{}).
		Where("user_id = ? AND type = ? AND created_at < ?", userID, models.PointTypeEarned, before).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&earned).Error
	if err != nil {
		return 0, err
	}

	var consumed int64
	err = r.db.WithContext(ctx).Model(&models.PointEntry{}).
		Where("user_id = ? AND type IN ?", userID, []string{models.PointTypeUsed, models.PointTypeExpired}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&consumed).Error
	if err != nil {
		return 0, err
	}

	expirable := earned - consumed
	if expirable < 0 {
		expirable = 0
	}
	return expirable, nil
}

// ListUsersWithExpirableEarned 获取在指定时间前仍有 earned 流水的用户
func (r *PointEntryRepository) ListUsersWithExpirableEarned(ctx context.Context, before time.Time, limit int) ([]int64, error) {
	var userIDs []int64
	err := r.db.WithContext(ctx).Model(&models.PointEntry{}).
		Where("type = ? AND created_at < ?", models.PointTypeEarned, before).
		Distinct("user_id").
		Limit(limit).
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}
