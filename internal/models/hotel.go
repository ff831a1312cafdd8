package models

import (
	"time"
)

// Hotel 酒店模型
type Hotel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID     int64     `gorm:"index;not null" json:"owner_id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	City        string    `gorm:"type:varchar(50);not null" json:"city"`
	Address     string    `gorm:"type:varchar(255);not null" json:"address"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Status      int8      `gorm:"type:smallint;not null;default:1" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Owner *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Rooms []Room `gorm:"foreignKey:HotelID" json:"rooms,omitempty"`
}

// TableName 表名
func (Hotel) TableName() string {
	return "hotels"
}

// HotelStatus 酒店状态
const (
	HotelStatusDisabled = 0 // 下架
	HotelStatusActive   = 1 // 正常
)

// Room 房型模型，Inventory 为可售房量计数器
type Room struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	HotelID     int64     `gorm:"index;not null" json:"hotel_id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Type        string    `gorm:"type:varchar(50);not null;default:'standard'" json:"type"`
	Price       int64     `gorm:"not null" json:"price"`
	Capacity    int       `gorm:"not null;default:2" json:"capacity"`
	Inventory   int       `gorm:"not null;default:0" json:"inventory"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Status      int8      `gorm:"type:smallint;not null;default:1" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Hotel *Hotel `gorm:"foreignKey:HotelID" json:"hotel,omitempty"`
}

// TableName 表名
func (Room) TableName() string {
	return "rooms"
}

// RoomType 房型类别
const (
	RoomTypeStandard = "standard" // 标准间
	RoomTypeDeluxe   = "deluxe"   // 豪华间
	RoomTypeSuite    = "suite"    // 套房
)

// RoomStatus 房型状态
const (
	RoomStatusDisabled = 0 // 下架
	RoomStatusActive   = 1 // 在售
)

// Review 评价模型，创建后发放固定积分奖励
type Review struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64     `gorm:"index;not null" json:"user_id"`
	ReservationID int64     `gorm:"uniqueIndex;not null" json:"reservation_id"`
	HotelID       int64     `gorm:"index;not null" json:"hotel_id"`
	Rating        int       `gorm:"not null" json:"rating"`
	Content       string    `gorm:"type:text;not null;default:''" json:"content"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`

	// 关联
	User        *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Reservation *Reservation `gorm:"foreignKey:ReservationID" json:"reservation,omitempty"`
}

// TableName 表名
func (Review) TableName() string {
	return "reviews"
}
