// Package models 定义数据模型
package models

import (
	"time"
)

// User 用户模型
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(100);not null" json:"-"`
	Nickname     string    `gorm:"type:varchar(50);not null;default:''" json:"nickname"`
	Phone        *string   `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Role         string    `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Points       int64     `gorm:"not null;default:0" json:"points"`
	Status       int8      `gorm:"type:smallint;not null;default:1" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	PointEntries []PointEntry `gorm:"foreignKey:UserID" json:"point_entries,omitempty"`
}

// TableName 表名
func (User) TableName() string {
	return "users"
}

// UserRole 用户角色
const (
	RoleUser    = "user"    // 普通用户
	RolePartner = "partner" // 酒店合作方
	RoleAdmin   = "admin"   // 管理员
)

// UserStatus 用户状态
const (
	UserStatusDisabled = 0 // 禁用
	UserStatusActive   = 1 // 正常
)

// PointEntry 积分流水（仅追加，余额 = earned - used - expired）
type PointEntry struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64     `gorm:"index;not null" json:"user_id"`
	Type          string    `gorm:"type:varchar(20);not null;index" json:"type"`
	Amount        int64     `gorm:"not null" json:"amount"`
	Description   string    `gorm:"type:varchar(255);not null;default:''" json:"description"`
	ReservationID *int64    `gorm:"index" json:"reservation_id,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	// 关联
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 表名
func (PointEntry) TableName() string {
	return "point_entries"
}

// PointEntryType 积分流水类型
const (
	PointTypeEarned  = "earned"  // 获得
	PointTypeUsed    = "used"    // 使用
	PointTypeExpired = "expired" // 过期
)
