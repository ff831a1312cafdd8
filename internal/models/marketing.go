package models

import (
	"time"
)

// Coupon 优惠券模型
//
// Code 统一存储为大写。UsedCount 为共享核销计数器，
// 超过 UsageLimit 后不可再核销。
type Coupon struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Code          string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"code"`
	Name          string    `gorm:"type:varchar(100);not null;default:''" json:"name"`
	DiscountType  string    `gorm:"type:varchar(20);not null" json:"discount_type"`
	DiscountValue int64     `gorm:"not null" json:"discount_value"`
	MinPurchase   int64     `gorm:"not null;default:0" json:"min_purchase"`
	MaxDiscount   int64     `gorm:"not null;default:0" json:"max_discount"`
	ValidFrom     time.Time `gorm:"not null" json:"valid_from"`
	ValidUntil    time.Time `gorm:"not null" json:"valid_until"`
	UsedCount     int       `gorm:"not null;default:0" json:"used_count"`
	UsageLimit    int       `gorm:"not null;default:0" json:"usage_limit"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (Coupon) TableName() string {
	return "coupons"
}

// DiscountType 折扣类型
const (
	DiscountTypePercentage = "percentage" // 按比例折扣，受 MaxDiscount 封顶
	DiscountTypeFixed      = "fixed"      // 固定金额折扣
)
